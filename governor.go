// governor.go — the resource governor.
//
// A single mutable counter set threaded through every evaluation entry
// point, so statement/iteration/depth/time accounting is deterministic and
// independent of the Go runtime's own stack limits. Checkpoints sit before
// each statement, each loop iteration and each lambda invocation; exceeding
// any configured ceiling aborts the run with a ResourceLimitExceeded
// failure, leaving the Data mutations applied so far intact.
package jyro

import (
	"fmt"
	"time"
)

// Limits configures the governor's ceilings. Zero means unlimited.
type Limits struct {
	MaxStatements     int
	MaxLoopIterations int
	MaxCallDepth      int
	MaxExecutionTime  time.Duration
}

// DefaultLimits are the ceilings the CLI applies when the host supplies none.
var DefaultLimits = Limits{
	MaxStatements:     100_000,
	MaxLoopIterations: 100_000,
	MaxCallDepth:      256,
	MaxExecutionTime:  5 * time.Second,
}

// Governor tracks per-invocation resource consumption. One instance per
// run; never shared across invocations.
type Governor struct {
	limits     Limits
	statements int
	iterations int
	depth      int
	maxDepth   int
	start      time.Time
}

func newGovernor(limits Limits) *Governor {
	return &Governor{limits: limits, start: time.Now()}
}

// Statements reports how many statement checkpoints have passed.
func (g *Governor) Statements() int { return g.statements }

// Iterations reports how many loop-iteration checkpoints have passed.
func (g *Governor) Iterations() int { return g.iterations }

// MaxDepthSeen reports the deepest evaluation frame reached.
func (g *Governor) MaxDepthSeen() int { return g.maxDepth }

func (g *Governor) exceeded(line int, what string, used, max int) {
	panic(rtErr{
		kind: DiagResourceLimit,
		line: line,
		msg:  fmt.Sprintf("%s limit exceeded (%d of %d)", what, used, max),
	})
}

// checkStatement is the per-statement checkpoint.
func (g *Governor) checkStatement(line int) {
	g.statements++
	if g.limits.MaxStatements > 0 && g.statements > g.limits.MaxStatements {
		g.exceeded(line, "statement", g.statements, g.limits.MaxStatements)
	}
	g.checkTime(line)
}

// checkIteration is the per-loop-iteration checkpoint.
func (g *Governor) checkIteration(line int) {
	g.iterations++
	if g.limits.MaxLoopIterations > 0 && g.iterations > g.limits.MaxLoopIterations {
		g.exceeded(line, "loop iteration", g.iterations, g.limits.MaxLoopIterations)
	}
	g.checkTime(line)
}

// checkCall is the per-lambda-invocation checkpoint.
func (g *Governor) checkCall(line int) {
	g.checkTime(line)
}

// enter/leave account evaluation depth: every nested expression/statement
// frame and every lambda invocation passes through here.
func (g *Governor) enter(line int) {
	g.depth++
	if g.depth > g.maxDepth {
		g.maxDepth = g.depth
	}
	if g.limits.MaxCallDepth > 0 && g.depth > g.limits.MaxCallDepth {
		g.exceeded(line, "evaluation depth", g.depth, g.limits.MaxCallDepth)
	}
}

func (g *Governor) leave() { g.depth-- }

func (g *Governor) checkTime(line int) {
	if g.limits.MaxExecutionTime <= 0 {
		return
	}
	if elapsed := time.Since(g.start); elapsed > g.limits.MaxExecutionTime {
		panic(rtErr{
			kind: DiagResourceLimit,
			line: line,
			msg:  fmt.Sprintf("execution time limit exceeded (%s of %s)", elapsed.Round(time.Millisecond), g.limits.MaxExecutionTime),
		})
	}
}
