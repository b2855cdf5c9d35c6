package sortdebug

import (
	"fmt"

	"github.com/stretchr/testify/assert"

	"github.com/tjun/sortdebug/internal/comparison"
)

const failureHeader = "assertion failed: `(left == right)`"

// TestingT is the subset of *testing.T used by the assertions.
type TestingT interface {
	Errorf(format string, args ...any)
	FailNow()
}

type tHelper interface {
	Helper()
}

// MismatchError reports two operands whose sorted renderings differ.
type MismatchError struct {
	Left, Right string // sorted renderings
	Message     string // optional user message
	Diff        string // diff report of Left against Right
}

// Error returns the failure header, the optional user message, a blank
// line, the diff report and a trailing blank line.
func (e *MismatchError) Error() string {
	sep := ""
	if e.Message != "" {
		sep = ": "
	}
	return fmt.Sprintf("%s%s%s\n\n%s\n", failureHeader, sep, e.Message, e.Diff)
}

// Check compares the sorted renderings of left and right. It returns nil
// when they are identical, a *MismatchError when they differ and a
// *NormalizeError when either rendering cannot be sorted.
func Check(left, right any, msgAndArgs ...any) error {
	l, err := normalize("left", left)
	if err != nil {
		return err
	}
	r, err := normalize("right", right)
	if err != nil {
		return err
	}
	if l == r {
		return nil
	}
	return &MismatchError{
		Left:    l,
		Right:   r,
		Message: messageFromMsgAndArgs(msgAndArgs...),
		Diff:    comparison.New(l, r, comparisonOptions()).String(),
	}
}

// Equal asserts that left and right have the same sorted rendering. On a
// mismatch, or when a rendering cannot be sorted, it reports the failure
// and stops the test with t.FailNow.
func Equal(t TestingT, left, right any, msgAndArgs ...any) bool {
	if h, ok := t.(tHelper); ok {
		h.Helper()
	}
	if err := Check(left, right, msgAndArgs...); err != nil {
		t.Errorf("%s", err)
		t.FailNow()
		return false
	}
	return true
}

// EqualUnsorted is the plain equality assertion, without any sorting. It
// stops the test with t.FailNow on failure.
func EqualUnsorted(t TestingT, left, right any, msgAndArgs ...any) bool {
	if h, ok := t.(tHelper); ok {
		h.Helper()
	}
	if !assert.Equal(t, left, right, msgAndArgs...) {
		t.FailNow()
		return false
	}
	return true
}

// messageFromMsgAndArgs follows the testify convention: a lone argument is
// the message, a format string followed by arguments is formatted.
func messageFromMsgAndArgs(msgAndArgs ...any) string {
	if len(msgAndArgs) == 0 {
		return ""
	}
	format, ok := msgAndArgs[0].(string)
	if !ok {
		return fmt.Sprintf("%+v", msgAndArgs[0])
	}
	if len(msgAndArgs) == 1 {
		return format
	}
	return fmt.Sprintf(format, msgAndArgs[1:]...)
}
