package cli

import (
	"fmt"
	"strconv"

	"github.com/hupe1980/pagecursor"
	"github.com/hupe1980/pagecursor/resource"
	"github.com/spf13/cobra"
)

func newSchemaCmd(g *globalFlags) *cobra.Command {
	src := &sourceFlags{}

	cmd := &cobra.Command{
		Use:     "schema",
		Short:   "Print the row count and the declared column types",
		Example: `  pagecursor schema --parquet ./videos.parquet`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := g.loadConfig(cmd)
			if err != nil {
				return err
			}

			rc := resource.NewController(resource.Config{
				MemoryLimitBytes:   cfg.MemoryLimit,
				IOLimitBytesPerSec: cfg.IOLimit,
			})
			s, err := openSource(cmd.Context(), src, cfg, rc)
			if err != nil {
				return err
			}
			defer s.Close()

			cur, err := pagecursor.New(s,
				pagecursor.WithPageSize(1),
				pagecursor.WithLogger(newLogger(cfg, cmd.ErrOrStderr()).WithSource(s.name)),
			)
			if err != nil {
				return err
			}
			defer cur.Close()

			rows := make([][]string, 0, cur.ColumnCount())
			for i, c := range cur.Columns() {
				rows = append(rows, []string{strconv.Itoa(i), c.Name, c.Type.String()})
			}

			out := cmd.OutOrStdout()
			if _, err := fmt.Fprintf(out, "%s: %d rows\n", s.name, cur.RowCount()); err != nil {
				return err
			}
			return renderTable(out, []string{"#", "column", "type"}, rows)
		},
	}

	src.register(cmd)
	return cmd
}
