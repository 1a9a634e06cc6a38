package notify

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type delivery struct {
	title, body string
}

func recorder(out *[]delivery, err error) Option {
	return WithSender(func(title, message, _ string) error {
		if err != nil {
			return err
		}

		*out = append(*out, delivery{title, message})

		return nil
	})
}

func TestDesktopSendReplacesByTag(t *testing.T) {
	var got []delivery

	d := NewDesktop("babytimer", true, recorder(&got, nil))
	require.NoError(t, d.RequestPermission())

	require.NoError(t, d.Send(TagTimer, "Feeding complete", "25m on the left"))
	require.NoError(t, d.Send(TagTimer, "Sleep complete", "1h 5m nap"))

	n, ok := d.Last(TagTimer)
	require.True(t, ok)
	assert.Equal(t, Notification{"Sleep complete", "1h 5m nap"}, n)
	assert.Len(t, got, 2)

	// identical content under the same tag is not shown twice
	require.NoError(t, d.Send(TagTimer, "Sleep complete", "1h 5m nap"))
	assert.Len(t, got, 2)

	d.Clear(TagTimer)

	_, ok = d.Last(TagTimer)
	assert.False(t, ok)

	require.NoError(t, d.Send(TagTimer, "Sleep complete", "1h 5m nap"))
	assert.Len(t, got, 3)
}

func TestDesktopDisabled(t *testing.T) {
	var got []delivery

	d := NewDesktop("babytimer", false, recorder(&got, nil))

	assert.ErrorIs(t, d.RequestPermission(), errNotificationsDisabled)
	assert.NoError(t, d.Send(TagPersistence, "Not saved", "disk full"))
	assert.Empty(t, got)
}

func TestDesktopSendFailure(t *testing.T) {
	var got []delivery

	boom := errors.New("no notification daemon")
	d := NewDesktop("babytimer", true, recorder(&got, boom))

	assert.ErrorIs(t, d.Send(TagTimer, "Feeding complete", ""), boom)

	_, ok := d.Last(TagTimer)
	assert.False(t, ok)
}
