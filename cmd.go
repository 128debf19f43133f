package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/chazu/noisegraph/pkg/config"
)

// cli holds the state shared by every subcommand.
type cli struct {
	out        io.Writer
	v          *viper.Viper
	configFile string
	log        *zap.Logger
	app        *App
}

func newRootCommand(out io.Writer) *cobra.Command {
	c := &cli{out: out, v: viper.New()}

	cmd := &cobra.Command{
		Use:           "noisegraph",
		Short:         "Inspect, build and sample noise node graphs",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if c.log != nil {
				_ = c.log.Sync()
			}
		},
		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Help()
		},
	}
	cmd.SetOut(out)
	cmd.CompletionOptions.DisableDefaultCmd = true

	flags := cmd.PersistentFlags()
	flags.StringVar(&c.configFile, "config", "", "config file (YAML)")
	flags.String("backend", config.BackendPerlin, "noise engine: perlin or fastnoise")
	flags.Bool("debug", false, "enable debug logging")
	_ = c.v.BindPFlag("backend", flags.Lookup("backend"))
	_ = c.v.BindPFlag("debug", flags.Lookup("debug"))

	cmd.AddCommand(
		c.kindsCommand(),
		c.describeCommand(),
		c.buildCommand(),
		c.genCommand(),
		c.singleCommand(),
		c.previewCommand(),
	)
	return cmd
}

func (c *cli) setup() error {
	cfg, err := config.Load(c.v, c.configFile)
	if err != nil {
		return err
	}
	c.log, err = newLogger(cfg.Debug)
	if err != nil {
		return err
	}
	c.app, err = NewApp(cfg, c.log)
	return err
}

func (c *cli) printJSON(v any) error {
	enc := json.NewEncoder(c.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func readSource(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (c *cli) kindsCommand() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "kinds",
		Short: "List the node kinds the engine provides",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			kinds := c.app.Kinds()
			if asJSON {
				return c.printJSON(kinds)
			}
			for _, k := range kinds {
				fmt.Fprintf(c.out, "%3d  %-24s %d members\n", k.ID, k.Name, len(k.Members))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func (c *cli) describeCommand() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "describe <kind>",
		Short: "Show the members of a node kind",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := c.app.Describe(args[0])
			if err != nil {
				return err
			}
			if asJSON {
				return c.printJSON(k)
			}
			fmt.Fprintf(c.out, "%s (id %d)\n", k.Name, k.ID)
			for _, m := range k.Members {
				line := fmt.Sprintf("  %-20s %-6s %d", m.Name, m.Type, m.Index)
				if len(m.Enum) > 0 {
					line += "  {" + strings.Join(m.Enum, ", ") + "}"
				}
				fmt.Fprintln(c.out, line)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func (c *cli) buildCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "build <file>",
		Short: "Validate and build a graph, then report its output range",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := readSource(args[0])
			if err != nil {
				return err
			}
			result := c.app.Evaluate(src)
			if err := c.printJSON(result); err != nil {
				return err
			}
			if len(result.Errors) > 0 {
				return fmt.Errorf("%s: %d errors", args[0], len(result.Errors))
			}
			return nil
		},
	}
}

func (c *cli) genCommand() *cobra.Command {
	var (
		dims      int
		start     []int
		size      []int
		frequency float32
		seed      int32
		values    bool
	)
	cmd := &cobra.Command{
		Use:   "gen <file>",
		Short: "Generate a uniform grid and print its range",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if dims < 2 || dims > 4 {
				return fmt.Errorf("--dims must be 2, 3 or 4")
			}
			req := GridRequest{Dims: dims, Frequency: frequency, Seed: seed}
			for i := 0; i < dims; i++ {
				req.Size[i] = c.app.cfg.Preview.Size
				if i < len(size) {
					req.Size[i] = size[i]
				}
				if req.Size[i] <= 0 {
					return fmt.Errorf("grid size must be positive")
				}
				if i < len(start) {
					req.Start[i] = start[i]
				}
			}
			if !cmd.Flags().Changed("frequency") {
				req.Frequency = c.app.cfg.Preview.Frequency
			}
			if !cmd.Flags().Changed("seed") {
				req.Seed = c.app.cfg.Preview.Seed
			}

			src, err := readSource(args[0])
			if err != nil {
				return err
			}
			out, r, err := c.app.Grid(src, req)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "min %g max %g\n", r.Min, r.Max)
			if values {
				for _, v := range out {
					fmt.Fprintln(c.out, strconv.FormatFloat(float64(v), 'g', -1, 32))
				}
			}
			return nil
		},
	}
	flags := cmd.Flags()
	flags.IntVar(&dims, "dims", 2, "grid dimensions (2, 3 or 4)")
	flags.IntSliceVar(&start, "start", nil, "grid start per axis")
	flags.IntSliceVar(&size, "size", nil, "grid size per axis (default preview.size)")
	flags.Float32Var(&frequency, "frequency", 0, "grid frequency (default preview.frequency)")
	flags.Int32Var(&seed, "seed", 0, "seed (default preview.seed)")
	flags.BoolVar(&values, "values", false, "print every generated value")
	return cmd
}

func (c *cli) singleCommand() *cobra.Command {
	var seed int32
	cmd := &cobra.Command{
		Use:   "single <file> <x> <y> [z] [w]",
		Short: "Evaluate a graph at one point",
		Args:  cobra.RangeArgs(3, 5),
		RunE: func(cmd *cobra.Command, args []string) error {
			coords := make([]float32, 0, 4)
			for _, a := range args[1:] {
				f, err := strconv.ParseFloat(a, 32)
				if err != nil {
					return fmt.Errorf("coordinate %q: %w", a, err)
				}
				coords = append(coords, float32(f))
			}
			src, err := readSource(args[0])
			if err != nil {
				return err
			}
			v, err := c.app.Single(src, coords, seed)
			if err != nil {
				return err
			}
			fmt.Fprintln(c.out, strconv.FormatFloat(float64(v), 'g', -1, 32))
			return nil
		},
	}
	cmd.Flags().Int32Var(&seed, "seed", 0, "seed")
	return cmd
}

func (c *cli) previewCommand() *cobra.Command {
	var (
		output   string
		meshPath string
		height   float32
		tileable bool
	)
	cmd := &cobra.Command{
		Use:   "preview <file>",
		Short: "Render a graph to a grayscale PNG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := readSource(args[0])
			if err != nil {
				return err
			}
			if meshPath == "" {
				height = 0
			}
			var img bytes.Buffer
			mesh, err := c.app.Preview(src, &img, tileable, height)
			if err != nil {
				return err
			}
			if err := os.WriteFile(output, img.Bytes(), 0o644); err != nil {
				return err
			}
			if mesh == nil {
				return nil
			}
			data, err := json.Marshal(mesh)
			if err != nil {
				return err
			}
			return os.WriteFile(meshPath, data, 0o644)
		},
	}
	flags := cmd.Flags()
	flags.StringVarP(&output, "output", "o", "preview.png", "PNG output path")
	flags.StringVar(&meshPath, "mesh", "", "also write a heightfield mesh as JSON")
	flags.Float32Var(&height, "height", 16, "heightfield height")
	flags.BoolVar(&tileable, "tileable", false, "render a seamlessly tiling image")
	return cmd
}
