package exec_test

import (
	"context"
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/jonwraymond/toolfleet/backend"
	"github.com/jonwraymond/toolfleet/backend/local"
	"github.com/jonwraymond/toolfleet/exec"
)

func ExampleExecutor_Invoke() {
	greeter := local.New("greeter")
	_ = greeter.RegisterHandler("greet", local.ToolDef{
		Description: "Greets a user",
		Handler: func(_ context.Context, args map[string]any) (any, error) {
			name, _ := args["name"].(string)
			return fmt.Sprintf("Hello, %s!", name), nil
		},
	})

	reg := backend.NewRegistry()
	_ = reg.Register(greeter)

	executor, err := exec.New(reg, exec.Options{})
	if err != nil {
		fmt.Println("Error:", err)
		return
	}

	fmt.Println(executor.Invoke(context.Background(), "greeter", "greet", map[string]any{"name": "Ada"}))
	// Output:
	// Hello, Ada!
}

func ExampleExecutor_Run() {
	flaky := local.New("flaky")
	calls := 0
	_ = flaky.RegisterHandler("status", local.ToolDef{
		Handler: func(_ context.Context, _ map[string]any) (any, error) {
			calls++
			if calls < 2 {
				return nil, errors.New("warming up")
			}
			return map[string]any{"state": "ready"}, nil
		},
	})

	reg := backend.NewRegistry()
	_ = reg.Register(flaky)

	executor, _ := exec.New(reg, exec.Options{RetryDelay: 1})
	res := executor.Run(context.Background(), "flaky", "status", nil)

	fmt.Println("ok:", res.OK())
	fmt.Println("attempts:", res.Attempts)
	fmt.Println(res.Output)
	// Output:
	// ok: true
	// attempts: 2
	// {
	//   "state": "ready"
	// }
}
