package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidNotificationType(t *testing.T) {
	for _, notifType := range NotificationTypes {
		assert.True(t, ValidNotificationType(notifType), notifType)
	}
	assert.False(t, ValidNotificationType("all"), `"all" is a filter value, not a type`)
	assert.False(t, ValidNotificationType(""))
	assert.False(t, ValidNotificationType("likes"))
}
