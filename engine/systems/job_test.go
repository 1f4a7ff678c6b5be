package systems

import (
	"errors"
	"io"
	"os"
	"sync/atomic"
	"testing"

	"github.com/spaghettifunk/anima-gallery/engine/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	core.SetLogOutput(io.Discard)
	os.Exit(m.Run())
}

func TestNewJobSystemValidates(t *testing.T) {
	_, err := NewJobSystem(0, 1)
	assert.ErrorIs(t, err, ErrNoWorkers)
	_, err = NewJobSystem(1, -1)
	assert.ErrorIs(t, err, ErrNegativeChannelSize)
}

func TestJobsRunAndFailuresAreReported(t *testing.T) {
	js, err := NewJobSystem(3, 4)
	require.NoError(t, err)

	var done, failed atomic.Int32
	boom := errors.New("boom")
	for i := 0; i < 20; i++ {
		i := i
		require.NoError(t, js.Submit(JobTask{
			Name: "work",
			Run: func() error {
				if i == 7 {
					return boom
				}
				return nil
			},
			OnComplete: func() { done.Add(1) },
			OnFailure:  func(error) { failed.Add(1) },
		}))
	}

	err = js.Shutdown()
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, int32(19), done.Load())
	assert.Equal(t, int32(1), failed.Load())

	assert.ErrorIs(t, js.Submit(JobTask{Run: func() error { return nil }}), ErrJobSystemClosed)
	assert.NoError(t, js.Shutdown())
}
