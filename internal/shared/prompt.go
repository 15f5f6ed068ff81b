package shared

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/viper"
)

// PromptYesNo asks a question on out and reads the answer from in. Anything not starting
// with n counts as yes, and non-interactive mode always answers yes.
func PromptYesNo(in io.Reader, out io.Writer, prompt string) (bool, error) {
	fmt.Fprint(out, prompt)
	if viper.GetBool("non-interactive") {
		fmt.Fprintln(out, "Y (non-interactive mode)")
		return true, nil
	}
	answer, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("failed to prompt user: %w", err)
	}

	ansNormal := strings.ToLower(strings.TrimSpace(answer))
	if len(ansNormal) > 0 && ansNormal[0] == 'n' {
		return false, nil
	}
	return true, nil
}
