package jyro

import (
	"strings"
	"testing"
	"time"
)

func runLimited(t *testing.T, src string, limits Limits) Result {
	t.Helper()
	return Execute(src, Obj(NewMapObject()), limits)
}

func Test_Governor_Statement_Ceiling(t *testing.T) {
	res := runLimited(t, `
while true do
    Data.x = 1
end
`, Limits{MaxStatements: 50})
	if res.Outcome != OutcomeFailure || res.Kind != DiagResourceLimit {
		t.Fatalf("want ResourceLimitExceeded, got %s/%s: %s", res.Outcome, res.Kind, res.Message)
	}
	if !strings.Contains(res.Message, "statement") {
		t.Fatalf("unexpected message %q", res.Message)
	}
}

func Test_Governor_Iteration_Ceiling(t *testing.T) {
	res := runLimited(t, `
for i in 0 to 1000000 do
end
`, Limits{MaxLoopIterations: 100})
	if res.Kind != DiagResourceLimit {
		t.Fatalf("want ResourceLimitExceeded, got %s: %s", res.Kind, res.Message)
	}
	if !strings.Contains(res.Message, "iteration") {
		t.Fatalf("unexpected message %q", res.Message)
	}
}

func Test_Governor_CallDepth_Ceiling(t *testing.T) {
	res := runLimited(t, `
var boom = x => boom(x)
Data.v = boom(1)
`, Limits{MaxCallDepth: 20})
	if res.Kind != DiagResourceLimit {
		t.Fatalf("want ResourceLimitExceeded, got %s: %s", res.Kind, res.Message)
	}
}

func Test_Governor_Timeout(t *testing.T) {
	res := runLimited(t, `
while true do
    Data.x = 1
end
`, Limits{MaxExecutionTime: 20 * time.Millisecond})
	if res.Kind != DiagResourceLimit {
		t.Fatalf("want ResourceLimitExceeded, got %s: %s", res.Kind, res.Message)
	}
}

func Test_Governor_Zero_Means_Unlimited(t *testing.T) {
	res := runLimited(t, `
var sum = 0
for i in 0 to 5000 do
    sum = sum + i
end
Data.sum = sum
`, Limits{})
	if res.Outcome != OutcomeSuccess {
		t.Fatalf("zero limits should not trip: %s: %s", res.Kind, res.Message)
	}
}

func Test_Governor_Counters_Reset_Per_Run(t *testing.T) {
	prog, err := Parse(`
for i in 0 to 80 do
end
`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	limits := Limits{MaxLoopIterations: 100}
	for run := 0; run < 5; run++ {
		res := prog.Run(Obj(NewMapObject()), limits)
		if res.Outcome != OutcomeSuccess {
			t.Fatalf("run %d tripped the governor: %s", run, res.Message)
		}
	}
}

func Test_Governor_Mutations_Survive_Limit_Failure(t *testing.T) {
	res := runLimited(t, `
Data.progress = 0
while true do
    Data.progress = Data.progress + 1
end
`, Limits{MaxStatements: 100})
	if res.Kind != DiagResourceLimit {
		t.Fatalf("want ResourceLimitExceeded, got %s", res.Kind)
	}
	v, ok := res.Data.Data.(*MapObject).Get("progress")
	if !ok || v.Tag != VTNum || v.Data.(float64) == 0 {
		t.Fatalf("partial mutations lost: %#v", v)
	}
}

func Test_Governor_Nested_Loops_Share_Iteration_Budget(t *testing.T) {
	res := runLimited(t, `
for i in 0 to 20 do
    for j in 0 to 20 do
    end
end
`, Limits{MaxLoopIterations: 100})
	if res.Kind != DiagResourceLimit {
		t.Fatalf("want shared budget to trip, got %s: %s", res.Kind, res.Message)
	}
}
