package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/go-sif/esframe"
	"github.com/go-sif/esframe/datasource"
	"github.com/go-sif/esframe/logging"
	"github.com/go-sif/esframe/ml"
	"github.com/go-sif/esframe/operations/transform"
	"github.com/go-sif/esframe/render"
	"github.com/spf13/cobra"
)

// cli holds the state shared by all commands
type cli struct {
	out     io.Writer
	connect connector

	envFile   string
	index     string
	format    string
	addresses []string
	username  string
	password  string
	apiKey    string
	cloudID   string
	logLevel  string
	files     string
	mapping   string
	fieldCaps string

	conf   *Config
	logger *slog.Logger
}

func newRootCmd(out io.Writer, connect connector) *cobra.Command {
	c := &cli{out: out, connect: connect}
	rootCmd := &cobra.Command{
		Use:   "esframe",
		Short: "esframe - explore Elasticsearch indices as tables",
		Long: `esframe presents an Elasticsearch index pattern as a table: one row per
document, one column per mapped field. Nested and repeated fields are
flattened into dotted columns holding lists of values.

Connection settings are read from ESFRAME_* environment variables, loaded
from a .env file when present, and may be overridden by flags.

Examples:
  # Show the first rows of an index
  esframe --index flights head -n 5

  # Summarise numeric columns
  esframe --index 'logs-*' describe`,
		SilenceUsage:      true,
		PersistentPreRunE: c.configure,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&c.envFile, "env-file", ".env", "File of environment variables to load")
	flags.StringVarP(&c.index, "index", "i", "", "Index pattern to query")
	flags.StringVarP(&c.format, "format", "f", "table", "Output format: table|csv|markdown")
	flags.StringSliceVar(&c.addresses, "addresses", nil, "Cluster node addresses (env "+AddressesEnv+")")
	flags.StringVar(&c.username, "username", "", "Username for basic authentication (env "+UsernameEnv+")")
	flags.StringVar(&c.password, "password", "", "Password for basic authentication (env "+PasswordEnv+")")
	flags.StringVar(&c.apiKey, "api-key", "", "Base64-encoded API key (env "+APIKeyEnv+")")
	flags.StringVar(&c.cloudID, "cloud-id", "", "Elastic Cloud deployment id (env "+CloudIDEnv+")")
	flags.StringVar(&c.logLevel, "log-level", "", "Log level: trace|debug|info|warn|error (env "+LogLevelEnv+")")
	flags.StringVar(&c.files, "files", "", "Glob of JSON Lines files to read instead of a cluster, one index per file")
	flags.StringVar(&c.mapping, "mapping", "mapping.json", "Mapping of the --files indices")
	flags.StringVar(&c.fieldCaps, "field-caps", "field_caps.json", "Field capabilities of the --files indices")

	rootCmd.AddCommand(
		c.columnsCmd(),
		c.dtypesCmd(),
		c.shapeCmd(),
		c.headCmd(),
		c.tailCmd(),
		c.describeCmd(),
		c.countCmd(),
		c.deleteModelCmd(),
	)
	return rootCmd
}

// configure loads Config, letting explicitly set flags override the environment
func (c *cli) configure(cmd *cobra.Command, args []string) error {
	conf, err := LoadConfig(c.envFile)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("addresses") {
		conf.Addresses = c.addresses
	}
	if flags.Changed("username") {
		conf.Username = c.username
	}
	if flags.Changed("password") {
		conf.Password = c.password
	}
	if flags.Changed("api-key") {
		conf.APIKey = c.apiKey
	}
	if flags.Changed("cloud-id") {
		conf.CloudID = c.cloudID
	}
	if flags.Changed("log-level") {
		conf.LogLevel = c.logLevel
	}
	conf.Files = c.files
	conf.MappingFile = c.mapping
	conf.FieldCapsFile = c.fieldCaps
	c.conf = conf
	c.logger = logging.New(cmd.ErrOrStderr(), logging.ParseLevel(conf.LogLevel))
	return nil
}

// dataFrame connects and creates a DataFrame over the --index pattern
func (c *cli) dataFrame(cmd *cobra.Command) (esframe.DataFrame, error) {
	if c.index == "" {
		return nil, fmt.Errorf("an index pattern is required (--index)")
	}
	source, _, err := c.connect(c.conf, c.logger)
	if err != nil {
		return nil, err
	}
	return datasource.CreateDataFrame(cmd.Context(), source, c.index, &esframe.DataFrameConf{Logger: c.logger})
}

func (c *cli) outputFormat() (render.Format, error) {
	return render.ParseFormat(c.format)
}

func (c *cli) columnsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "columns",
		Short: "List the columns of an index pattern",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			df, err := c.dataFrame(cmd)
			if err != nil {
				return err
			}
			for _, col := range df.Columns() {
				fmt.Fprintln(c.out, col)
			}
			return nil
		},
	}
}

func (c *cli) dtypesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dtypes",
		Short: "List the columns of an index pattern with their data types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := c.outputFormat()
			if err != nil {
				return err
			}
			df, err := c.dataFrame(cmd)
			if err != nil {
				return err
			}
			fmt.Fprintln(c.out, render.Columns(df.Columns(), df.Dtypes(), format))
			return nil
		},
	}
}

func (c *cli) shapeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "shape",
		Short: "Print the number of documents and columns",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			df, err := c.dataFrame(cmd)
			if err != nil {
				return err
			}
			rows, cols, err := df.Shape(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "(%d, %d)\n", rows, cols)
			return nil
		},
	}
}

// rowsCmd builds head and tail, which differ only in which end of the index they read
func (c *cli) rowsCmd(use string, short string, fetch func(df esframe.DataFrame, cmd *cobra.Command, n int) (*esframe.Fragment, error)) *cobra.Command {
	var n int
	var columns []string
	var indexField string
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := c.outputFormat()
			if err != nil {
				return err
			}
			df, err := c.dataFrame(cmd)
			if err != nil {
				return err
			}
			if indexField != "" {
				df, err = df.To(transform.SetIndex(indexField))
				if err != nil {
					return err
				}
			}
			if len(columns) > 0 {
				df, err = df.Project(columns...)
				if err != nil {
					return err
				}
			}
			fragment, err := fetch(df, cmd, n)
			if err != nil {
				return err
			}
			fmt.Fprintln(c.out, render.Fragment(fragment, format))
			return nil
		},
	}
	cmd.Flags().IntVarP(&n, "rows", "n", 5, "Number of rows to show")
	cmd.Flags().StringSliceVar(&columns, "columns", nil, "Columns to show (default all)")
	cmd.Flags().StringVar(&indexField, "index-field", "", "Column to index and order rows by (default the document _id)")
	return cmd
}

func (c *cli) headCmd() *cobra.Command {
	return c.rowsCmd("head", "Show the first documents", func(df esframe.DataFrame, cmd *cobra.Command, n int) (*esframe.Fragment, error) {
		return df.Head(cmd.Context(), n)
	})
}

func (c *cli) tailCmd() *cobra.Command {
	return c.rowsCmd("tail", "Show the last documents, in index order", func(df esframe.DataFrame, cmd *cobra.Command, n int) (*esframe.Fragment, error) {
		return df.Tail(cmd.Context(), n)
	})
}

func (c *cli) describeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "describe",
		Short: "Summarise the numeric columns",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := c.outputFormat()
			if err != nil {
				return err
			}
			df, err := c.dataFrame(cmd)
			if err != nil {
				return err
			}
			stats, err := df.Describe(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(c.out, render.Statistics(stats, format))
			return nil
		},
	}
}

func (c *cli) countCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "count",
		Short: "Count the non-null values of each column",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := c.outputFormat()
			if err != nil {
				return err
			}
			df, err := c.dataFrame(cmd)
			if err != nil {
				return err
			}
			counts, err := df.Count(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(c.out, render.Counts(df.Columns(), counts, format))
			return nil
		},
	}
}

func (c *cli) deleteModelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete-model <model-id>",
		Short: "Delete a trained model, succeeding if it does not exist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, client, err := c.connect(c.conf, c.logger)
			if err != nil {
				return err
			}
			if client == nil {
				return fmt.Errorf("the configured store does not manage models")
			}
			if err := ml.CreateModel(client, args[0]).Delete(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(c.out, "deleted %s\n", strings.TrimSpace(args[0]))
			return nil
		},
	}
}
