package shell

import (
	"fmt"
	"runtime/debug"
)

// guard corre una acción del menú. Un panic se reporta por stderr y el loop sigue.
func (s *Shell) guard(action string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("panic in action", map[string]any{
				"action": action,
				"panic":  fmt.Sprint(r),
				"stack":  string(debug.Stack()),
			})
			fmt.Fprintln(s.errOut, "Unexpected error, please try again.")
		}
	}()
	fn()
}
