package wstracker

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/pion/webrtc/v4"

	"github.com/upflare/tracker"
)

// The event name carried in every frame.
type Action string

const (
	// Sent once to each new connection so the browser learns its peer id.
	ActionConnected Action = "connected"
	ActionFragment  Action = "tracker_fragment"
	ActionReport    Action = "tracker_report"
	ActionOffer     Action = "rtc_offer"
	ActionAnswer    Action = "rtc_answer"
)

// Decoded first to pick the payload type.
type envelope struct {
	Action Action `json:"action"`
}

type ConnectedMessage struct {
	Action Action         `json:"action"`
	Id     tracker.PeerId `json:"id"`
}

type FragmentRequest struct {
	URL          string           `json:"url"`
	Contributors []tracker.PeerId `json:"contributors"`
	Candidates   []tracker.PeerId `json:"candidates"`
}

type FragmentResponse struct {
	Action  Action           `json:"action"`
	URL     string           `json:"url"`
	Seeders []tracker.PeerId `json:"seeders"`
}

type ReportMessage struct {
	Fragments tracker.FragmentChanges `json:"fragments"`
	Slots     Slots                   `json:"slots"`
	Stats     tracker.TransferStats   `json:"stats"`
}

// An offer or answer on its way between two browsers. Inbound, Id is the target. When relayed, Id
// is replaced with the sender.
type SignalMessage struct {
	Action     Action                     `json:"action,omitempty"`
	Id         tracker.PeerId             `json:"id"`
	Offer      *webrtc.SessionDescription `json:"offer,omitempty"`
	Answer     *webrtc.SessionDescription `json:"answer,omitempty"`
	Candidates []webrtc.ICECandidateInit  `json:"candidates,omitempty"`
}

// Upload slots as sent by browsers: a JSON number, or a string with a leading integer. Anything
// else is zero.
type Slots int

func (me *Slots) UnmarshalJSON(b []byte) error {
	*me = 0
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return nil
	}
	switch b[0] {
	case '"':
		var s string
		if json.Unmarshal(b, &s) == nil {
			*me = Slots(leadingInt(s))
		}
	case 'n', 't', 'f', '[', '{':
	default:
		f, err := strconv.ParseFloat(string(b), 64)
		if err == nil && !math.IsNaN(f) {
			*me = Slots(clampInt(math.Trunc(f)))
		}
	}
	return nil
}

// Parses the optionally signed decimal prefix of s after leading whitespace.
func leadingInt(s string) int {
	s = strings.TrimLeft(s, " \t\n\r\v\f")
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digitsStart := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digitsStart {
		return 0
	}
	f, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		return 0
	}
	return clampInt(f)
}

func clampInt(f float64) int {
	switch {
	case f >= math.MaxInt:
		return math.MaxInt
	case f <= math.MinInt:
		return math.MinInt
	default:
		return int(f)
	}
}
