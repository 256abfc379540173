package pagecursor_test

import (
	"fmt"
	"log"

	"github.com/hupe1980/pagecursor"
	"github.com/hupe1980/pagecursor/rowsource"
)

func Example() {
	src, err := rowsource.NewMemory(
		[]string{"_id", "title", "rating"},
		[][]any{
			{int64(1), "Big Buck Bunny", 4.5},
			{int64(2), "Sintel", 4.0},
			{int64(3), "Tears of Steel", 3.5},
		},
	)
	if err != nil {
		log.Fatal(err)
	}

	cur, err := pagecursor.New(src)
	if err != nil {
		log.Fatal(err)
	}
	defer cur.Close()

	for cur.MoveToNext() {
		id, _ := cur.GetLong(0)
		title, _ := cur.GetString(1)
		rating, _ := cur.GetDouble(2)
		fmt.Printf("%d %s %.1f\n", id, title, rating)
	}
	// Output:
	// 1 Big Buck Bunny 4.5
	// 2 Sintel 4.0
	// 3 Tears of Steel 3.5
}

func ExamplePrefetchReload() {
	rows := make([][]any, 25)
	for i := range rows {
		rows[i] = []any{int64(i)}
	}
	src, err := rowsource.NewMemory([]string{"n"}, rows)
	if err != nil {
		log.Fatal(err)
	}

	cur, err := pagecursor.New(src, pagecursor.WithReloadPolicy(pagecursor.PrefetchReload{}))
	if err != nil {
		log.Fatal(err)
	}
	defer cur.Close()

	for cur.MoveToNext() {
	}
	fmt.Println("page loads:", cur.Stats().PageLoads)
	// Output: page loads: 3
}
