package cli

import (
	"fmt"

	"github.com/hupe1980/pagecursor"
	"github.com/hupe1980/pagecursor/resource"
	"github.com/spf13/cobra"
)

type scanFlags struct {
	src         sourceFlags
	pageSize    int
	policy      string
	threshold   int
	memoryLimit int64
	ioLimit     int64
	seek        []int
	limit       int
	columns     []string
	format      string
	stats       bool
}

func newScanCmd(g *globalFlags) *cobra.Command {
	f := &scanFlags{}

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Print rows through the paginated cursor",
		Example: `  pagecursor scan --sqlite videos.db -q 'SELECT * FROM videos' --limit 20 --stats
  pagecursor scan --parquet s3://exports/videos.parquet --seek 500,12,499 --policy prefetch`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runScan(cmd, g, f)
		},
	}

	f.src.register(cmd)
	cmd.Flags().IntVarP(&f.pageSize, "page-size", "p", 0, "Rows loaded per page (default from config, 10)")
	cmd.Flags().StringVar(&f.policy, "policy", "", "Reload policy: threshold or prefetch")
	cmd.Flags().IntVar(&f.threshold, "threshold", -1, "Reload threshold in rows (default page-size/2 for threshold, 0 for prefetch)")
	cmd.Flags().Int64Var(&f.memoryLimit, "memory-limit", 0, "Cache memory budget in bytes (0 = unlimited)")
	cmd.Flags().Int64Var(&f.ioLimit, "io-limit", 0, "Remote read throughput in bytes/s (0 = unlimited)")
	cmd.Flags().IntSliceVar(&f.seek, "seek", nil, "Visit these row positions instead of scanning forward")
	cmd.Flags().IntVarP(&f.limit, "limit", "n", 0, "Stop after this many rows (0 = all)")
	cmd.Flags().StringSliceVar(&f.columns, "columns", nil, "Only print these columns")
	cmd.Flags().StringVarP(&f.format, "format", "o", FormatTable, "Output format: table or jsonl")
	cmd.Flags().BoolVar(&f.stats, "stats", false, "Print cursor statistics after the rows")

	return cmd
}

// applyFlags overrides cfg with the scan flags the user set.
func (f *scanFlags) applyFlags(cmd *cobra.Command, cfg *Config) {
	flags := cmd.Flags()
	if flags.Changed("page-size") {
		cfg.PageSize = f.pageSize
	}
	if flags.Changed("policy") {
		cfg.Policy = f.policy
	}
	if flags.Changed("threshold") {
		cfg.Threshold = f.threshold
	}
	if flags.Changed("memory-limit") {
		cfg.MemoryLimit = f.memoryLimit
	}
	if flags.Changed("io-limit") {
		cfg.IOLimit = f.ioLimit
	}
}

func reloadPolicy(cfg Config) pagecursor.ReloadPolicy {
	switch {
	case cfg.Policy == PolicyPrefetch:
		return pagecursor.PrefetchReload{Threshold: max(cfg.Threshold, 0)}
	case cfg.Threshold >= 0:
		return pagecursor.ThresholdReload{Threshold: cfg.Threshold}
	default:
		// Cursor default: half a page.
		return nil
	}
}

func runScan(cmd *cobra.Command, g *globalFlags, f *scanFlags) error {
	cfg, err := g.loadConfig(cmd)
	if err != nil {
		return err
	}
	f.applyFlags(cmd, &cfg)
	if err := validateConfig(cfg); err != nil {
		return err
	}
	if f.format != FormatTable && f.format != FormatJSONL {
		return fmt.Errorf("unknown format %q", f.format)
	}

	ctx := cmd.Context()
	rc := resource.NewController(resource.Config{
		MemoryLimitBytes:   cfg.MemoryLimit,
		IOLimitBytesPerSec: cfg.IOLimit,
	})

	src, err := openSource(ctx, &f.src, cfg, rc)
	if err != nil {
		return err
	}
	defer src.Close()

	logger := newLogger(cfg, cmd.ErrOrStderr()).WithSource(src.name)
	cur, err := pagecursor.New(src,
		pagecursor.WithPageSize(cfg.PageSize),
		pagecursor.WithReloadPolicy(reloadPolicy(cfg)),
		pagecursor.WithResourceController(rc),
		pagecursor.WithLogger(logger),
	)
	if err != nil {
		return err
	}
	defer cur.Close()

	cols, err := selectColumns(cur, f.columns)
	if err != nil {
		return err
	}

	next := cur.MoveToNext
	if len(f.seek) > 0 {
		for _, p := range f.seek {
			if p < 0 || p >= cur.RowCount() {
				return fmt.Errorf("seek %d: row out of range [0, %d)", p, cur.RowCount())
			}
		}
		positions := f.seek
		next = func() bool {
			if len(positions) == 0 {
				return false
			}
			p := positions[0]
			positions = positions[1:]
			return cur.MoveToPosition(p)
		}
	}

	out := cmd.OutOrStdout()
	var (
		table [][]string
		jsonl []jsonRow
	)
	for n := 0; (f.limit <= 0 || n < f.limit) && next(); n++ {
		switch f.format {
		case FormatJSONL:
			row := jsonRow{Row: cur.Position(), Values: make(map[string]any, len(cols))}
			for _, c := range cols {
				v, err := cellValue(cur, c.index, c.Type)
				if err != nil {
					return err
				}
				row.Values[c.Name] = v
			}
			jsonl = append(jsonl, row)
		default:
			row := []string{fmt.Sprint(cur.Position())}
			for _, c := range cols {
				v, err := cellText(cur, c.index, c.Type)
				if err != nil {
					return err
				}
				row = append(row, v)
			}
			table = append(table, row)
		}
	}
	if f.format == FormatJSONL {
		if err := writeJSONL(out, jsonl); err != nil {
			return err
		}
	} else {
		headers := []string{"#"}
		for _, c := range cols {
			headers = append(headers, c.Name)
		}
		if err := renderTable(out, headers, table); err != nil {
			return err
		}
	}

	if f.stats {
		return renderTable(out, []string{"stat", "value"}, statsRows(cur.Stats()))
	}
	return nil
}

type selectedColumn struct {
	pagecursor.Column
	index int
}

func selectColumns(cur *pagecursor.Cursor, names []string) ([]selectedColumn, error) {
	all := cur.Columns()
	if len(names) == 0 {
		cols := make([]selectedColumn, len(all))
		for i, c := range all {
			cols[i] = selectedColumn{Column: c, index: i}
		}
		return cols, nil
	}

	cols := make([]selectedColumn, 0, len(names))
	for _, name := range names {
		i, err := cur.ColumnIndexOrErr(name)
		if err != nil {
			return nil, err
		}
		cols = append(cols, selectedColumn{Column: all[i], index: i})
	}
	return cols, nil
}
