package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpenseInput(t *testing.T) {
	in, err := expenseInput("Taxi", "12.50", "m1")
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("12.5").Equal(in.Amount))
	assert.Equal(t, "m1", in.PayerID)

	_, err = expenseInput("Taxi", "abc", "")
	assert.Error(t, err)

	_, err = expenseInput("Taxi", "-3", "")
	assert.EqualError(t, err, "amount must be positive")
}

func TestReadSecret(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.SetIn(strings.NewReader("hunter2\n"))
	cmd.SetErr(&bytes.Buffer{})

	got, err := readSecret(cmd, "", "Password: ")
	require.NoError(t, err)
	assert.Equal(t, "hunter2", got)

	got, err = readSecret(cmd, "from-flag", "Password: ")
	require.NoError(t, err)
	assert.Equal(t, "from-flag", got)

	cmd.SetIn(strings.NewReader(""))
	_, err = readSecret(cmd, "", "Password: ")
	assert.Error(t, err)
}

func TestVersionCmd(t *testing.T) {
	root := newRootCmd()
	out := &bytes.Buffer{}
	root.SetOut(out)
	root.SetArgs([]string{"version"})

	require.NoError(t, root.Execute())
	assert.Equal(t, "splitora version dev\n", out.String())
}

func TestMemberInvite(t *testing.T) {
	in, err := memberInvite("Ana", "ana@b.c", "", "+1")
	require.NoError(t, err)
	assert.Equal(t, "ana@b.c", in.Email)
	assert.Nil(t, in.Phone)

	in, err = memberInvite("Bo", "", "(555) 010-0199", "+44")
	require.NoError(t, err)
	require.NotNil(t, in.Phone)
	assert.Equal(t, "+44", in.Phone.CountryCode)
	assert.Equal(t, int64(5550100199), in.Phone.PhoneNumber)

	_, err = memberInvite("Bo", "", "call me", "+1")
	assert.EqualError(t, err, `invalid phone "call me"`)
}
