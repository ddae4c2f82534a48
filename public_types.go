package guidechat

import (
	"github.com/virtualgoa/guidechat/catalog"
	"github.com/virtualgoa/guidechat/internal/convo"
	"github.com/virtualgoa/guidechat/internal/media"
	"github.com/virtualgoa/guidechat/internal/record"
)

// Aliases expose the internal domain types without a separate import.

// Subject is a tour stop the client can open a conversation about.
type Subject = catalog.Subject

// Message is a single conversation entry.
type Message = convo.Message

// Role identifies the author of a Message.
type Role = convo.Role

const (
	RoleUser      = convo.RoleUser
	RoleAssistant = convo.RoleAssistant
)

// Blob carries raw media bytes plus their MIME type.
type Blob = media.Blob

// AudioDevice streams captured audio chunks until closed.
type AudioDevice = record.Device

// AudioDeviceOpener acquires an AudioDevice for a recording session.
type AudioDeviceOpener = record.Opener

// RecordingState is the capture state machine's position.
type RecordingState = record.State

const (
	RecordingIdle       = record.StateIdle
	RecordingCapturing  = record.StateCapturing
	RecordingFinalizing = record.StateFinalizing
)
