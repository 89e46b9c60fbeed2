package settings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToastSettings_Validate(t *testing.T) {
	tests := []struct {
		name     string
		settings ToastSettings
		wantErr  bool
	}{
		{"defaults are valid", DefaultToastSettings(), false},
		{"small top", ToastSettings{Size: ToastSizeSmall, Duration: 1, Position: ToastPositionTop}, false},
		{"large bottom", ToastSettings{Size: ToastSizeLarge, Duration: 10, Position: ToastPositionBottom}, false},
		{"invalid size", ToastSettings{Size: "huge", Duration: 5, Position: ToastPositionTop}, true},
		{"duration too low", ToastSettings{Size: ToastSizeSmall, Duration: 0, Position: ToastPositionTop}, true},
		{"duration too high", ToastSettings{Size: ToastSizeSmall, Duration: 11, Position: ToastPositionTop}, true},
		{"invalid position", ToastSettings{Size: ToastSizeSmall, Duration: 5, Position: "left"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.settings.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestToastSettings_Normalize(t *testing.T) {
	got := ToastSettings{Size: "huge", Duration: 40, Position: "left"}.Normalize()

	assert.NoError(t, got.Validate())
	assert.Equal(t, ToastSizeMedium, got.Size)
	assert.Equal(t, ToastDurationMax, got.Duration)
	assert.Equal(t, ToastPositionBottom, got.Position)

	// In-range values pass through untouched.
	in := ToastSettings{Size: ToastSizeLarge, Duration: 3, Position: ToastPositionTop}
	assert.Equal(t, in, in.Normalize())
}

func TestChannelSetting_Validate(t *testing.T) {
	for _, ch := range []string{ChannelEmail, ChannelSMS, ChannelPush, ChannelInApp} {
		assert.NoError(t, ChannelSetting{Channel: ch}.Validate())
	}
	assert.Error(t, ChannelSetting{Channel: "pigeon"}.Validate())
}

func TestUserNotificationSettings_Validate(t *testing.T) {
	valid := UserNotificationSettings{
		UserID:      "u-100",
		LastUpdated: "2026-08-01T10:00:00Z",
		EventSettings: []EventSetting{
			{
				EventID:   1,
				EventName: "document.approved",
				PersonalSettings: []ChannelSetting{
					{Channel: ChannelEmail, Enabled: true},
					{Channel: ChannelInApp, Enabled: true},
				},
				SubstituteSettings: []ChannelSetting{
					{Channel: ChannelInApp, Enabled: false},
				},
			},
		},
	}
	assert.NoError(t, valid.Validate())

	noUser := valid
	noUser.UserID = ""
	assert.Error(t, noUser.Validate())

	badChannel := valid
	badChannel.EventSettings = []EventSetting{
		{
			EventID:          2,
			EventName:        "task.assigned",
			PersonalSettings: []ChannelSetting{{Channel: "fax", Enabled: true}},
		},
	}
	assert.Error(t, badChannel.Validate())

	noName := valid
	noName.EventSettings = []EventSetting{{EventID: 3}}
	assert.Error(t, noName.Validate())
}
