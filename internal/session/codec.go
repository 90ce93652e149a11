package session

import (
	"bytes"
	"compress/zlib"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/san-kum/convergent/internal/parse"
)

// StateVersion tags encoded state; other versions are rejected.
const StateVersion = "0.1.0"

// decoded payloads larger than this are rejected
const maxStateBytes = 1 << 20

type encodedState struct {
	Version  string           `json:"version"`
	Values   []string         `json:"values,omitempty"`
	Mask     []bool           `json:"mask,omitempty"`
	Settings *encodedSettings `json:"settings,omitempty"`
}

type encodedSettings struct {
	OutputPrecision *int  `json:"outputPrecision,omitempty"`
	ShowPivot       *bool `json:"showPivot,omitempty"`
}

// EncodeState returns "" when input and settings are all defaults, and
// otherwise the base64 of the zlib-compressed JSON state, carrying only the
// parts that differ from the defaults.
func EncodeState(mi ModelInput, st Settings) (string, error) {
	def := DefaultModelInput()
	state := encodedState{Version: StateVersion}
	changed := false

	if !slices.Equal(mi.Values, def.Values) {
		state.Values = mi.Values
		changed = true
	}
	if !slices.Equal(mi.Mask, def.Mask) {
		state.Mask = mi.Mask
		changed = true
	}
	if st != DefaultSettings() {
		state.Settings = &encodedSettings{OutputPrecision: &st.OutputPrecision, ShowPivot: &st.ShowPivot}
		changed = true
	}
	if !changed {
		return "", nil
	}

	data, err := json.Marshal(state)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	if _, err := zw.Write(data); err != nil {
		return "", err
	}
	if err := zw.Close(); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// DecodeState reverses EncodeState. Missing parts fall back to defaults;
// anything present must be well formed.
func DecodeState(encoded string) (ModelInput, Settings, error) {
	mi, st := DefaultModelInput(), DefaultSettings()
	encoded = strings.TrimSpace(encoded)
	if encoded == "" {
		return mi, st, nil
	}

	raw, err := decodeBase64(encoded)
	if err != nil {
		return mi, st, fmt.Errorf("%w: %v", ErrMalformedState, err)
	}
	zr, err := zlib.NewReader(bytes.NewReader(raw))
	if err != nil {
		return mi, st, fmt.Errorf("%w: %v", ErrMalformedState, err)
	}
	defer zr.Close()
	data, err := io.ReadAll(io.LimitReader(zr, maxStateBytes+1))
	if err != nil {
		return mi, st, fmt.Errorf("%w: %v", ErrMalformedState, err)
	}
	if len(data) > maxStateBytes {
		return mi, st, fmt.Errorf("%w: state exceeds %d bytes", ErrMalformedState, maxStateBytes)
	}

	var state encodedState
	if err := json.Unmarshal(data, &state); err != nil {
		return mi, st, fmt.Errorf("%w: %v", ErrMalformedState, err)
	}
	if state.Version != StateVersion {
		return mi, st, fmt.Errorf("%w: got %q, want %q", ErrVersionMismatch, state.Version, StateVersion)
	}

	switch {
	case state.Values != nil && state.Mask != nil:
		mi = ModelInput{Values: state.Values, Mask: state.Mask}
	case state.Values != nil:
		mi = ModelInput{Values: state.Values, Mask: enabled(len(state.Values))}
	case state.Mask != nil:
		mi.Mask = state.Mask
	}
	if len(mi.Values) != len(mi.Mask) {
		return DefaultModelInput(), st, fmt.Errorf("%w: %d values, %d mask entries", ErrMalformedState, len(mi.Values), len(mi.Mask))
	}
	if len(mi.Values) < 2 {
		return DefaultModelInput(), st, fmt.Errorf("%w: %d values", ErrMalformedState, len(mi.Values))
	}
	for i, v := range mi.Values {
		if _, err := parse.ParseValue(v); err != nil {
			return DefaultModelInput(), st, fmt.Errorf("%w: value %d: %v", ErrMalformedState, i, err)
		}
	}

	if s := state.Settings; s != nil {
		if s.OutputPrecision != nil {
			st.OutputPrecision = *s.OutputPrecision
		}
		if s.ShowPivot != nil {
			st.ShowPivot = *s.ShowPivot
		}
	}
	if err := validateSettings(st); err != nil {
		return DefaultModelInput(), DefaultSettings(), fmt.Errorf("%w: %v", ErrMalformedState, err)
	}

	return mi, st, nil
}

// Encode returns the shareable state string of the session.
func (s *Session) Encode() (string, error) {
	return EncodeState(s.input, s.settings)
}

// Decode replaces input and settings with an encoded state and restarts.
// On error the session is unchanged.
func (s *Session) Decode(encoded string) error {
	mi, st, err := DecodeState(encoded)
	if err != nil {
		return err
	}
	if err := s.applyInput(mi); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedState, err)
	}
	s.settings = st
	s.notifyInputs()
	s.notifySettings()
	s.Restart()
	return nil
}

// decodeBase64 accepts standard and URL-safe alphabets, padded or not. A
// '+' that went through query decoding arrives as a space.
func decodeBase64(s string) ([]byte, error) {
	s = strings.ReplaceAll(s, " ", "+")
	var firstErr error
	for _, enc := range []*base64.Encoding{base64.StdEncoding, base64.URLEncoding, base64.RawStdEncoding, base64.RawURLEncoding} {
		b, err := enc.DecodeString(s)
		if err == nil {
			return b, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return nil, firstErr
}

func enabled(n int) []bool {
	mask := make([]bool, n)
	for i := range mask {
		mask[i] = true
	}
	return mask
}
