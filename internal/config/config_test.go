package config

import (
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linuxmatters/mmalbench/internal/fuzzy"
	"github.com/linuxmatters/mmalbench/internal/mmal"
)

// TestUnmarshalText_Abbreviations verifies that every option kind accepts
// abbreviations through the fuzzy resolver and lands on the right value.
func TestUnmarshalText_Abbreviations(t *testing.T) {
	var enc Encoding
	require.NoError(t, enc.UnmarshalText([]byte("op")))
	assert.Equal(t, EncodingOpaque, enc)

	var src Source
	require.NoError(t, src.UnmarshalText([]byte("CAM")))
	assert.Equal(t, SourceCamera, src)

	var pat Pattern
	require.NoError(t, pat.UnmarshalText([]byte("dia")))
	assert.Equal(t, PatternDiagonal, pat)
	require.NoError(t, pat.UnmarshalText([]byte("sw")))
	assert.Equal(t, PatternSwirly, pat)

	var dst Dest
	require.NoError(t, dst.UnmarshalText([]byte("r")))
	assert.Equal(t, DestRender, dst)

	var conn Conn
	require.NoError(t, conn.UnmarshalText([]byte("t")))
	assert.Equal(t, ConnTunnel, conn)
}

// TestUnmarshalText_Errors verifies the user-facing messages for values that
// are unknown or ambiguous, and that the resolver sentinel stays reachable.
func TestUnmarshalText_Errors(t *testing.T) {
	testCases := []struct {
		name    string
		parse   func() error
		message string
		target  error
	}{
		{
			name:    "ambiguous pattern",
			parse:   func() error { var p Pattern; return p.UnmarshalText([]byte("b")) },
			message: "ambiguous pattern: b",
			target:  fuzzy.ErrAmbiguous,
		},
		{
			name:    "unknown encoding",
			parse:   func() error { var e Encoding; return e.UnmarshalText([]byte("yuv")) },
			message: "unknown encoding: yuv",
			target:  fuzzy.ErrNotFound,
		},
		{
			name:    "unknown dest",
			parse:   func() error { var d Dest; return d.UnmarshalText([]byte("hdmi")) },
			message: "unknown dest: hdmi",
			target:  fuzzy.ErrNotFound,
		},
		{
			name:    "empty source",
			parse:   func() error { var s Source; return s.UnmarshalText(nil) },
			message: "unknown source: ",
			target:  fuzzy.ErrNotFound,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.parse()
			require.Error(t, err)
			assert.Equal(t, tc.message, err.Error())
			assert.ErrorIs(t, err, tc.target)

			var ve *ValueError
			assert.True(t, errors.As(err, &ve))
		})
	}
}

// TestEnumNames verifies that canonical names and library identifiers stay
// aligned with the tables they are resolved from.
func TestEnumNames(t *testing.T) {
	for i, name := range PatternTable {
		p := Pattern(i)
		assert.Equal(t, name, p.String())
		assert.Equal(t, name, p.MMAL().String())
	}

	assert.Equal(t, "i420", EncodingI420.String())
	assert.Equal(t, mmal.EncodingOpaque, EncodingOpaque.MMAL())
	assert.Equal(t, mmal.ComponentCamera, SourceCamera.Component())
	assert.Equal(t, mmal.ComponentVideoRender, DestRender.Component())
	assert.Equal(t, "queue", ConnQueue.String())
	assert.Equal(t, "unknown", Conn(9).String())
}

// TestValidate covers the option combinations rejected before the library
// is touched.
func TestValidate(t *testing.T) {
	testCases := []struct {
		name   string
		modify func(c *Config)
		want   string
	}{
		{name: "defaults", modify: func(c *Config) {}},
		{
			name:   "camera on capture port",
			modify: func(c *Config) { c.Source = SourceCamera; c.OutputPort = PortCapture },
		},
		{
			name:   "source on video port",
			modify: func(c *Config) { c.OutputPort = PortVideo },
			want:   "output port must be 0 for source source",
		},
		{
			name:   "port out of range",
			modify: func(c *Config) { c.Source = SourceCamera; c.OutputPort = 3 },
			want:   "invalid output port 3 (must be 0..2)",
		},
		{
			name:   "zero width",
			modify: func(c *Config) { c.Width = 0 },
			want:   "invalid frame size 0x1080",
		},
		{
			name:   "negative duration",
			modify: func(c *Config) { c.Msec = -5 },
			want:   "invalid duration -5 ms",
		},
		{
			name:   "queue connection",
			modify: func(c *Config) { c.Conn = ConnQueue },
			want:   "connection queue: not implemented",
		},
		{
			name:   "zero duration is allowed",
			modify: func(c *Config) { c.Msec = 0 },
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c := Default()
			tc.modify(&c)
			err := c.Validate()
			if tc.want == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tc.want, err.Error())
		})
	}

	c := Default()
	c.OutputPort = PortCapture
	assert.ErrorIs(t, c.Validate(), ErrSourcePort)
}

func TestDerivedValues(t *testing.T) {
	c := Default()
	assert.Equal(t, time.Second, c.Duration())
	assert.Equal(t, mmal.VideoFormat(mmal.EncodingI420, 1920, 1080), c.Format())
	assert.False(t, c.StartsCapture())

	c.Source = SourceCamera
	c.OutputPort = PortVideo
	assert.True(t, c.StartsCapture())
	c.OutputPort = PortPreview
	assert.False(t, c.StartsCapture())
}
