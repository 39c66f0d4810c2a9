package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fsdevblog/shortlink/internal/models"
	"github.com/fsdevblog/shortlink/internal/repositories"
)

// takenLinks репозиторий, в котором заняты только коды из taken.
type takenLinks struct {
	repositories.LinkRepository
	taken  map[string]bool
	checks int
	err    error
}

func (l *takenLinks) ExistsShortURL(_ context.Context, shortURL string) (bool, error) {
	l.checks++
	if l.err != nil {
		return false, l.err
	}
	return l.taken[shortURL], nil
}

func TestRandomHexCode(t *testing.T) {
	seen := make(map[string]struct{})
	for range 100 {
		code := RandomHexCode()
		require.Len(t, code, models.ShortURLLength)
		assert.Regexp(t, `^[0-9a-f]{8}$`, code)
		seen[code] = struct{}{}
	}
	assert.Greater(t, len(seen), 95, "codes should practically never repeat")
}

func TestCodeGenerator_Allocate(t *testing.T) {
	ctx := context.Background()

	t.Run("skips taken codes", func(t *testing.T) {
		links := &takenLinks{taken: map[string]bool{"aaaaaaaa": true, "bbbbbbbb": true}}
		gen := NewCodeGenerator(func(o *CodeGeneratorOptions) {
			o.Source = sequenceSource("aaaaaaaa", "bbbbbbbb", "cccccccc")
		})

		code, err := gen.Allocate(ctx, links, nil)
		require.NoError(t, err)
		assert.Equal(t, "cccccccc", code)
		assert.Equal(t, 3, links.checks)
	})

	t.Run("retries when claim loses the race", func(t *testing.T) {
		links := &takenLinks{taken: map[string]bool{}}
		gen := NewCodeGenerator(func(o *CodeGeneratorOptions) {
			o.Source = sequenceSource("aaaaaaaa", "bbbbbbbb")
		})
		var claimed []string
		code, err := gen.Allocate(ctx, links, func(code string) error {
			claimed = append(claimed, code)
			if code == "aaaaaaaa" {
				return errCodeTaken
			}
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, "bbbbbbbb", code)
		assert.Equal(t, []string{"aaaaaaaa", "bbbbbbbb"}, claimed)
	})

	t.Run("gives up after max attempts", func(t *testing.T) {
		links := &takenLinks{taken: map[string]bool{"aaaaaaaa": true}}
		gen := NewCodeGenerator(func(o *CodeGeneratorOptions) {
			o.Source = sequenceSource("aaaaaaaa")
			o.MaxAttempts = 3
		})
		_, err := gen.Allocate(ctx, links, nil)
		require.ErrorIs(t, err, ErrCapacityExceeded)
		assert.Equal(t, 3, links.checks)
	})

	t.Run("claim error is returned as is", func(t *testing.T) {
		boom := errors.New("boom")
		gen := NewCodeGenerator()
		_, err := gen.Allocate(ctx, &takenLinks{taken: map[string]bool{}}, func(string) error {
			return boom
		})
		require.ErrorIs(t, err, boom)
	})

	t.Run("storage failure", func(t *testing.T) {
		gen := NewCodeGenerator()
		_, err := gen.Allocate(ctx, &takenLinks{err: repositories.ErrUnknown}, nil)
		require.ErrorIs(t, err, ErrUnknown)
	})
}
