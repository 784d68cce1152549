package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"
	"github.com/peterh/liner"

	"github.com/meschsystems/jyro"
)

const (
	appName     = "jyro"
	historyFile = ".jyro_history"
	promptMain  = "jyro> "
	promptCont  = "  ... "
)

func red(s string) string   { return "\x1b[31m" + s + "\x1b[0m" }
func green(s string) string { return "\x1b[32m" + s + "\x1b[0m" }
func blue(s string) string  { return "\x1b[94m" + s + "\x1b[0m" }

// limitsFile is the YAML shape accepted by --limits. Omitted fields keep
// their defaults; explicit zeroes mean unlimited.
type limitsFile struct {
	MaxStatements     *int    `yaml:"max_statements"`
	MaxLoopIterations *int    `yaml:"max_loop_iterations"`
	MaxCallDepth      *int    `yaml:"max_call_depth"`
	MaxExecutionTime  *string `yaml:"max_execution_time"`
}

type limitFlags struct {
	Limits        string        `help:"YAML file with resource limits." type:"existingfile" optional:""`
	MaxStatements int           `help:"Statement ceiling (0 = unlimited)." default:"-1"`
	MaxIterations int           `help:"Loop iteration ceiling (0 = unlimited)." default:"-1"`
	MaxDepth      int           `help:"Call/nesting depth ceiling (0 = unlimited)." default:"-1"`
	Timeout       time.Duration `help:"Wall-clock ceiling (0 = unlimited)." default:"-1s"`
}

// resolve layers the limits: defaults, then the YAML file, then any flag
// given explicitly on the command line.
func (lf *limitFlags) resolve() (jyro.Limits, error) {
	limits := jyro.DefaultLimits

	if lf.Limits != "" {
		raw, err := os.ReadFile(lf.Limits)
		if err != nil {
			return limits, err
		}
		var f limitsFile
		if err := yaml.Unmarshal(raw, &f); err != nil {
			return limits, fmt.Errorf("%s: %w", lf.Limits, err)
		}
		if f.MaxStatements != nil {
			limits.MaxStatements = *f.MaxStatements
		}
		if f.MaxLoopIterations != nil {
			limits.MaxLoopIterations = *f.MaxLoopIterations
		}
		if f.MaxCallDepth != nil {
			limits.MaxCallDepth = *f.MaxCallDepth
		}
		if f.MaxExecutionTime != nil {
			d, err := time.ParseDuration(*f.MaxExecutionTime)
			if err != nil {
				return limits, fmt.Errorf("%s: max_execution_time: %w", lf.Limits, err)
			}
			limits.MaxExecutionTime = d
		}
	}

	if lf.MaxStatements >= 0 {
		limits.MaxStatements = lf.MaxStatements
	}
	if lf.MaxIterations >= 0 {
		limits.MaxLoopIterations = lf.MaxIterations
	}
	if lf.MaxDepth >= 0 {
		limits.MaxCallDepth = lf.MaxDepth
	}
	if lf.Timeout >= 0 {
		limits.MaxExecutionTime = lf.Timeout
	}
	return limits, nil
}

type runCmd struct {
	Script string `arg:"" help:"Script file to run." type:"existingfile"`
	Data   string `help:"JSON file with the initial data context (default: empty object)." type:"existingfile" optional:""`
	Pretty bool   `help:"Indent the resulting data JSON." default:"true" negatable:""`

	limitFlags `embed:""`
}

func (c *runCmd) Run() error {
	src, err := os.ReadFile(c.Script)
	if err != nil {
		return err
	}

	data := jyro.Obj(jyro.NewMapObject())
	if c.Data != "" {
		raw, err := os.ReadFile(c.Data)
		if err != nil {
			return err
		}
		data, err = jyro.FromJSON(raw)
		if err != nil {
			return fmt.Errorf("%s: %w", c.Data, err)
		}
	}

	limits, err := c.limitFlags.resolve()
	if err != nil {
		return err
	}

	res := jyro.Execute(string(src), data, limits)

	if res.Outcome == jyro.OutcomeFailure {
		fmt.Fprintln(os.Stderr, red(res.Message))
	} else if res.Message != "" {
		fmt.Fprintln(os.Stderr, green(res.Message))
	}

	if c.Pretty {
		fmt.Println(string(jyro.ToJSONIndent(res.Data)))
	} else {
		fmt.Println(string(jyro.ToJSON(res.Data)))
	}

	if res.Outcome == jyro.OutcomeFailure {
		// Distinguish script failure from CLI misuse.
		os.Exit(1)
	}
	return nil
}

type replCmd struct {
	Data string `help:"JSON file with the initial data context." type:"existingfile" optional:""`

	limitFlags `embed:""`
}

// The REPL keeps one data context across inputs. Each submitted chunk runs
// as a whole script against a clone of the current context; on success the
// context is replaced by the result, so a failed run never leaves partial
// mutations behind.
func (c *replCmd) Run() error {
	fmt.Printf("Jyro %s REPL\nCtrl+C cancels input, Ctrl+D exits. Type :quit to exit, :data to dump the context.\n", jyro.Version)

	limits, err := c.limitFlags.resolve()
	if err != nil {
		return err
	}

	data := jyro.Obj(jyro.NewMapObject())
	if c.Data != "" {
		raw, err := os.ReadFile(c.Data)
		if err != nil {
			return err
		}
		data, err = jyro.FromJSON(raw)
		if err != nil {
			return fmt.Errorf("%s: %w", c.Data, err)
		}
	}

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigc)
	go func() {
		<-sigc
		ln.Close()
		os.Exit(130)
	}()

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	for {
		code, ok := readUntilComplete(ln, promptMain, promptCont)
		if !ok {
			fmt.Println()
			return nil
		}

		trimmed := strings.TrimSpace(code)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, ":") {
			switch strings.ToLower(trimmed) {
			case ":quit":
				return nil
			case ":data":
				fmt.Println(blue(string(jyro.ToJSONIndent(data))))
			default:
				fmt.Println("unknown command. Type :quit to exit.")
			}
			continue
		}

		res := jyro.Execute(code, jyro.CloneValue(data), limits)
		if res.Outcome == jyro.OutcomeFailure {
			fmt.Fprintln(os.Stderr, red(res.Message))
			continue
		}
		data = res.Data
		if res.Message != "" {
			fmt.Println(green(res.Message))
		}
		fmt.Println(blue(string(jyro.ToJSONIndent(data))))
		ln.AppendHistory(strings.ReplaceAll(code, "\n", " "))
	}
}

// readUntilComplete accumulates lines until the source parses, or until the
// parse error is something other than an unexpected end of input. That lets
// multi-line blocks (if/while/foreach without their "end" yet) continue on
// the secondary prompt.
func readUntilComplete(ln *liner.State, prompt, cont string) (string, bool) {
	var b strings.Builder

	for {
		var line string
		var err error
		if b.Len() == 0 {
			line, err = ln.Prompt(prompt)
		} else {
			line, err = ln.Prompt(cont)
		}
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if err != nil {
			return "", true
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if _, perr := jyro.Parse(src); perr == nil || !isIncomplete(perr) {
			return src, true
		}
	}
}

func isIncomplete(err error) bool {
	return strings.Contains(err.Error(), "unexpected end of input")
}

type versionCmd struct{}

func (versionCmd) Run() error {
	fmt.Printf("%s %s (built %s)\n", appName, jyro.Version, jyro.BuildDate)
	return nil
}

type cli struct {
	Run     runCmd     `cmd:"" help:"Run a script against a data context and print the resulting JSON."`
	Repl    replCmd    `cmd:"" help:"Start an interactive session."`
	Version versionCmd `cmd:"" help:"Print the version."`
}

func main() {
	var c cli
	ctx := kong.Parse(&c,
		kong.Name(appName),
		kong.Description("Sandboxed scripting runtime for transforming JSON data."),
		kong.UsageOnError(),
	)
	ctx.FatalIfErrorf(ctx.Run())
}
