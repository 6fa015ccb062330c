// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/walteh/touni/pkg/config"
	"github.com/walteh/touni/pkg/convert"
	"github.com/walteh/touni/pkg/errs"
	"github.com/walteh/touni/pkg/fsio"
	"github.com/walteh/touni/pkg/log"
	"github.com/walteh/touni/pkg/stream"
	"github.com/walteh/touni/pkg/text"
)

const envPrefix = "TO_UNI"

// flag names, also the viper keys
const (
	flagStdout     = "stdout"
	flagNoBackup   = "no-backup"
	flagConfig     = "config"
	flagConfigName = "config-name"
	flagBlockSize  = "block-size"
	flagList       = "list"
	flagExpr       = "expr"
	flagVerbose    = "verbose"
	flagDebug      = "debug"
	flagTrace      = "trace"
	flagQuiet      = "quiet"
	flagVersion    = "version"
)

// rootOpts carries the process streams and what the command set up.
type rootOpts struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	v      *viper.Viper
	logger *log.Logger
}

func newRootCmd(opts *rootOpts) *cobra.Command {
	opts.v = viper.New()

	cmd := &cobra.Command{
		Use:   "to-uni [flags] [<input>|-] [<output>]",
		Short: "Replace LaTeX-style escape sequences with their unicode counterpart",
		Long: `to-uni scans its input for escape sequences such as \alpha or \to and
replaces them with the text configured for them, e.g. α or →.

The patterns are read from a configuration file (to-uni.yml by default),
searched for in the input file's directory and then upwards. Without an
output, an input file is converted in place and the original kept as
<input>.bak. Without an input, standard input is read.

Every flag can also be set from the environment, e.g. TO_UNI_NO_BACKUP=1.`,
		Example: `  to-uni thesis.tex
  to-uni thesis.tex out/
  to-uni --stdout 'chapters/**/*.tex'
  cat notes.txt | to-uni - notes.uni.txt
  to-uni -e '\forall x \in A'`,
		Args:          cobra.ArbitraryArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd.Context(), args)
		},
	}

	addRootFlags(cmd.Flags())
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return errs.Usage(errs.MinorUsageGeneral, "%v", err)
	})
	return cmd
}

// addRootFlags adds the command line flags
func addRootFlags(fs *pflag.FlagSet) {
	fs.Bool(flagStdout, false, "write the converted stream to standard output")
	fs.BoolP(flagNoBackup, "B", false, "don't keep a backup of the original for in-place conversion")
	fs.String(flagConfig, "", "configuration file, or directory to start the search from")
	fs.String(flagConfigName, config.DefaultName, "name of the configuration file")
	fs.Int(flagBlockSize, stream.DefaultBlockSize, "read block size in bytes")
	fs.Bool(flagList, false, "print the configured patterns and exit")
	fs.StringP(flagExpr, "e", "", "convert the given text and print it")
	fs.BoolP(flagVerbose, "v", false, "report every conversion")
	fs.BoolP(flagDebug, "d", false, "enable debug logging")
	fs.Bool(flagTrace, false, "log every substitution")
	fs.BoolP(flagQuiet, "q", false, "print nothing but errors")
	fs.Bool(flagVersion, false, "show the version and exit")
}

// setup binds flags to the environment and creates the logger.
func (o *rootOpts) setup(cmd *cobra.Command) error {
	o.v.SetEnvPrefix(envPrefix)
	o.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	o.v.AutomaticEnv()
	if err := o.v.BindPFlags(cmd.Flags()); err != nil {
		return errs.Internal("binding flags: %v", err)
	}

	o.logger = log.New(o.stderr, o.level())
	o.logger.Zerolog().Debug().
		Str(flagConfig, o.v.GetString(flagConfig)).
		Str(flagConfigName, o.v.GetString(flagConfigName)).
		Int(flagBlockSize, o.v.GetInt(flagBlockSize)).
		Bool(flagNoBackup, o.v.GetBool(flagNoBackup)).
		Bool(flagStdout, o.v.GetBool(flagStdout)).
		Msg("settings")
	cmd.SetContext(log.NewContext(cmd.Context(), o.logger))
	return nil
}

func (o *rootOpts) level() zerolog.Level {
	switch {
	case o.v.GetBool(flagQuiet):
		return zerolog.Disabled
	case o.v.GetBool(flagTrace):
		return zerolog.TraceLevel
	case o.v.GetBool(flagDebug):
		return zerolog.DebugLevel
	case o.v.GetBool(flagVerbose):
		return zerolog.InfoLevel
	default:
		return zerolog.WarnLevel
	}
}

func (o *rootOpts) run(ctx context.Context, args []string) error {
	if o.v.GetBool(flagVersion) {
		if _, err := fmt.Fprint(o.stdout, versionText(readBuildInfo())); err != nil {
			return errs.Output("<stdout>", err)
		}
		return nil
	}

	if len(args) > 2 {
		return errs.Usage(errs.MinorUsageGeneral, "expected at most an input and an output, got %d arguments", len(args))
	}
	rawIn, rawOut := "", ""
	if len(args) > 0 {
		rawIn = args[0]
	}
	if len(args) > 1 {
		rawOut = args[1]
	}

	blockSize := o.v.GetInt(flagBlockSize)
	if blockSize < 1 {
		return errs.Usage(errs.MinorUsageGeneral, "block size must be positive, got %d", blockSize)
	}
	if o.v.GetBool(flagStdout) && rawOut != "" {
		return errs.Usage(errs.MinorUsageGeneral, "an output and --stdout are mutually exclusive")
	}

	inputs, err := o.inputs(rawIn)
	if err != nil {
		return err
	}

	if o.v.IsSet(flagExpr) {
		return o.expr(ctx, inputs[0])
	}
	if o.v.GetBool(flagList) {
		return o.list(ctx, inputs[0])
	}

	jobs, err := o.jobs(ctx, inputs, rawOut, blockSize)
	if err != nil {
		return err
	}
	return o.convert(ctx, jobs)
}

// inputs resolves the input argument. Empty and "-" mean standard input; a
// glob pattern may name several files.
func (o *rootOpts) inputs(raw string) ([]fsio.Input, error) {
	if raw == "" || raw == "-" {
		return []fsio.Input{fsio.FromReader(fsio.StdinName, o.stdin)}, nil
	}

	paths, err := fsio.ExpandInputs(raw)
	if err != nil {
		return nil, err
	}
	inputs := make([]fsio.Input, 0, len(paths))
	for _, p := range paths {
		if err := fsio.VerifyFile(p); err != nil {
			return nil, err
		}
		inputs = append(inputs, fsio.FromFile(p))
	}
	return inputs, nil
}

func (o *rootOpts) discover(ctx context.Context, in fsio.Input) (*config.Config, error) {
	return config.Discover(ctx, in, o.v.GetString(flagConfig), o.v.GetString(flagConfigName))
}

func (o *rootOpts) expr(ctx context.Context, in fsio.Input) error {
	cfg, err := o.discover(ctx, in)
	if err != nil {
		return err
	}
	table, err := cfg.Table()
	if err != nil {
		return err
	}

	out := text.NewReplacer(table).ReplaceString(o.v.GetString(flagExpr))
	if _, err := fmt.Fprintln(o.stdout, out); err != nil {
		return errs.Output("<stdout>", err)
	}
	return nil
}

func (o *rootOpts) list(ctx context.Context, in fsio.Input) error {
	cfg, err := o.discover(ctx, in)
	if err != nil {
		return err
	}
	table, err := cfg.Table()
	if err != nil {
		return err
	}

	out, err := renderPatterns(cfg, table)
	if err != nil {
		return err
	}
	if _, err := io.WriteString(o.stdout, out); err != nil {
		return errs.Output("<stdout>", err)
	}
	return nil
}

// jobs pairs every input with its converter and output. Inputs sharing a
// configuration file share a converter. No two jobs may write the same file.
func (o *rootOpts) jobs(ctx context.Context, inputs []fsio.Input, rawOut string, blockSize int) ([]convert.Job, error) {
	if len(inputs) > 1 && rawOut != "" {
		if fi, err := os.Stat(rawOut); err != nil || !fi.IsDir() {
			return nil, errs.Usage(errs.MinorUsageGeneral,
				"%d inputs need an output directory, not %s", len(inputs), rawOut)
		}
	}

	req := fsio.OutputRequest{
		Raw:      rawOut,
		Stdout:   o.v.GetBool(flagStdout),
		NoBackup: o.v.GetBool(flagNoBackup),
		Writer:   o.stdout,
	}

	converters := map[string]*convert.Converter{}
	written := map[string]string{}
	jobs := make([]convert.Job, 0, len(inputs))
	for _, in := range inputs {
		out, err := fsio.ResolveOutput(in, req)
		if err != nil {
			return nil, err
		}
		if out.Path() != "" {
			dest := filepath.Clean(out.Path())
			if prev, ok := written[dest]; ok {
				return nil, errs.Usage(errs.MinorUsageGeneral,
					"%s and %s would both be written to %s", prev, in.Name(), dest)
			}
			written[dest] = in.Name()
		}

		cfg, err := o.discover(ctx, in)
		if err != nil {
			return nil, err
		}
		conv, ok := converters[cfg.Path]
		if !ok {
			table, err := cfg.Table()
			if err != nil {
				return nil, err
			}
			conv, err = convert.NewConverter(table, convert.WithBlockSize(blockSize))
			if err != nil {
				return nil, err
			}
			converters[cfg.Path] = conv
		}

		if in.IsTerminal() {
			o.logger.Warning("reading from the terminal, end the input with Ctrl-D")
		}
		jobs = append(jobs, convert.Job{Conv: conv, In: in, Out: out})
	}
	return jobs, nil
}

func (o *rootOpts) convert(ctx context.Context, jobs []convert.Job) error {
	if len(jobs) > 1 {
		o.logger.Header(fmt.Sprintf("converting %d files", len(jobs)))
	}

	runner := convert.NewRunner(func(ctx context.Context, r convert.Result) {
		o.logger.LogConversion(ctx, log.Conversion{
			Input:        r.Job.In.Name(),
			Output:       r.Job.Out.Name(),
			Mode:         r.Job.Out.Mode().String(),
			Replacements: r.Stats.Matches,
			BytesRead:    r.Stats.BytesRead,
			BytesWritten: r.Stats.BytesWritten,
		})
	})

	results, err := runner.Run(ctx, jobs)
	if err != nil {
		if len(results) > 0 {
			o.logger.Warningf("%d of %d files were converted before the failure", len(results), len(jobs))
		}
		return err
	}

	if len(jobs) > 1 {
		o.logger.Successf("converted %d files, %d replacements", len(results), o.logger.Total())
	}
	return nil
}
