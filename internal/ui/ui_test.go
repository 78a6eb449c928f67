package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func capture(t *testing.T) (*bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	var out, errb bytes.Buffer
	prevOut, prevErr := Out, Err
	Out, Err = &out, &errb
	SetColorForcing(false, true)
	t.Cleanup(func() {
		Out, Err = prevOut, prevErr
		SetColorForcing(false, false)
		SetTheme("classic")
	})
	return &out, &errb
}

func TestOKAndFail(t *testing.T) {
	out, errb := capture(t)
	OK("added")
	Fail("boom")
	assert.Equal(t, "✔ added\n", out.String())
	assert.Equal(t, "✖ boom\n", errb.String())
}

func TestPanel_PadsToWidestLine(t *testing.T) {
	out, _ := capture(t)
	SetTheme("mono")
	Panel([]string{"ab", "abcd"})
	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	assert.Equal(t, []string{"+------+", "| ab   |", "| abcd |", "+------+"}, lines)
}

func TestStepBar(t *testing.T) {
	capture(t)
	SetTheme("mono")
	got := StepBar([]string{"cart", "payment", "address"}, 1)
	assert.Equal(t, "x cart > [payment] > address", got)
}

func TestColumns(t *testing.T) {
	capture(t)
	assert.Equal(t, "ab    $1.00", Columns([]string{"ab", "$1.00"}, []int{4, 6}))
	assert.Equal(t, "abcd...  x", Columns([]string{"abcdefghij", "x"}, []int{7, 1}))
}
