package domain

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPhaseRecordAdvance(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		from    Phase
		to      Phase
		wantErr bool
	}{
		{name: "pending to started", from: PhasePending, to: PhaseStarted},
		{name: "pending to errored", from: PhasePending, to: PhaseErrored},
		{name: "started to done", from: PhaseStarted, to: PhaseDone},
		{name: "started to errored", from: PhaseStarted, to: PhaseErrored},
		{name: "pending to done skips started", from: PhasePending, to: PhaseDone, wantErr: true},
		{name: "started to pending", from: PhaseStarted, to: PhasePending, wantErr: true},
		{name: "done to started", from: PhaseDone, to: PhaseStarted, wantErr: true},
		{name: "done to errored", from: PhaseDone, to: PhaseErrored, wantErr: true},
		{name: "errored to done", from: PhaseErrored, to: PhaseDone, wantErr: true},
		{name: "started to started", from: PhaseStarted, to: PhaseStarted, wantErr: true},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			record := PhaseRecord{Phase: tc.from, Label: "Server"}
			next, err := record.Advance(tc.to, "")
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrPhaseRegression)
				assert.Equal(t, record, next)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.to, next.Phase)
			assert.Equal(t, "Server", next.Label)
		})
	}
}

func TestPhaseRecordAdvanceReplacesLabel(t *testing.T) {
	t.Parallel()

	next, err := NewPhaseRecord("Prepare").Advance(PhaseStarted, "Preparing file")
	require.NoError(t, err)
	assert.Equal(t, PhaseRecord{Phase: PhaseStarted, Label: "Preparing file"}, next)
}

func TestAccessTokenSubdomain(t *testing.T) {
	t.Parallel()

	tests := []struct {
		token AccessToken
		want  string
	}{
		{token: "quiet-harbor", want: "quietharbor"},
		{token: "Loud-Comet", want: "loudcomet"},
		{token: "extraordinary-misunderstanding", want: "extraordinarymisunde"},
		{token: "a_b.c-9", want: "abc9"},
		{token: "", want: ""},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, tc.token.Subdomain(), string(tc.token))
	}
}

func TestEndpointURL(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "http://192.168.1.1:1337/unequal-wish", Endpoint{Address: "192.168.1.1", Port: 1337}.URL("unequal-wish"))
}

func TestSourceValid(t *testing.T) {
	t.Parallel()

	assert.False(t, Source{}.Valid())
	assert.False(t, Source{Path: "  "}.Valid())
	assert.True(t, Source{Path: "shared.png"}.Valid())

	piped := Source{Stdin: strings.NewReader("data")}
	assert.True(t, piped.Valid())
	assert.True(t, piped.IsStdin())
	assert.False(t, Source{Path: "a", Stdin: io.MultiReader()}.IsStdin())
}

func TestTransferEventFraction(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 0.5, TransferEvent{Sent: 50, Total: 100}.Fraction(), 1e-9)
	assert.InDelta(t, 1, TransferEvent{Sent: 150, Total: 100}.Fraction(), 1e-9)
	assert.InDelta(t, 0, TransferEvent{Kind: TransferProgress}.Fraction(), 1e-9)
	assert.InDelta(t, 1, TransferEvent{Kind: TransferCompleted}.Fraction(), 1e-9)
}

func TestSessionErrorMatchesSentinelAndCause(t *testing.T) {
	t.Parallel()

	cause := errors.New("zip: exit status 12")
	err := error(NewSessionError(FatalPackagingFailed, StepFile, cause))

	assert.ErrorIs(t, err, ErrPackagingFailed)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrNoFreePort)
	assert.Equal(t, "packaging failed: zip: exit status 12", err.Error())

	var sessionErr *SessionError
	require.True(t, errors.As(err, &sessionErr))
	assert.Equal(t, StepFile, sessionErr.Step)
}

func TestSessionErrorWithoutCause(t *testing.T) {
	t.Parallel()

	err := NewSessionError(FatalMissingInput, StepFile, nil)
	assert.Equal(t, ErrMissingInput.Error(), err.Error())
	assert.ErrorIs(t, err, ErrMissingInput)
}
