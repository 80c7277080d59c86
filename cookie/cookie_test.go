package cookie

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func collect(raw string) []string {
	defs := []string{}
	for def := range Split(raw) {
		defs = append(defs, def)
	}
	return defs
}

func TestSplit(t *testing.T) {
	defer goleak.VerifyNone(t)

	testcases := []struct {
		desc     string
		input    string
		expected []string
	}{
		{
			desc:     "single definition",
			input:    "a=1",
			expected: []string{"a=1"},
		},
		{
			desc:     "two definitions",
			input:    "a=1, b=2",
			expected: []string{"a=1", "b=2"},
		},
		{
			desc:  "comma inside expires date",
			input: "id=1; Expires=Wed, 09 Jun 2021 10:18:14 GMT, id2=2",
			expected: []string{
				"id=1; Expires=Wed, 09 Jun 2021 10:18:14 GMT",
				"id2=2",
			},
		},
		{
			desc:  "expires in every definition",
			input: "a=1; expires=Thu, 01 Jan 1970 00:00:00 GMT, b=2; Expires=Fri, 02 Jan 1970 00:00:00 GMT",
			expected: []string{
				"a=1; expires=Thu, 01 Jan 1970 00:00:00 GMT",
				"b=2; Expires=Fri, 02 Jan 1970 00:00:00 GMT",
			},
		},
		{
			desc:  "rfc 850 style weekday",
			input: "a=1; Expires=Wednesday, 09-Jun-21 10:18:14 GMT, b=2",
			expected: []string{
				"a=1; Expires=Wednesday, 09-Jun-21 10:18:14 GMT",
				"b=2",
			},
		},
		{
			desc:     "expires value without weekday splits normally",
			input:    "a=1; Expires=tomorrow, b=2",
			expected: []string{"a=1; Expires=tomorrow", "b=2"},
		},
		{
			desc:     "expires token in cookie value is not an attribute",
			input:    "a=Expires=Wed, b=2",
			expected: []string{"a=Expires=Wed", "b=2"},
		},
		{
			desc:     "empty segments dropped",
			input:    "a=1, , b=2,",
			expected: []string{"a=1", "b=2"},
		},
		{
			desc:     "empty input",
			input:    "",
			expected: []string{},
		},
		{
			desc:     "whitespace around definitions trimmed",
			input:    "  a=1 ,\tb=2  ",
			expected: []string{"a=1", "b=2"},
		},
	}
	for _, tc := range testcases {
		t.Run(tc.desc, func(t *testing.T) {
			assert.Equal(t, tc.expected, collect(tc.input))
		})
	}
}

func TestSplitIsLazy(t *testing.T) {
	defer goleak.VerifyNone(t)

	defs := []string{}
	for def := range Split("a=1, b=2, c=3") {
		defs = append(defs, def)
		if len(defs) == 2 {
			break
		}
	}

	assert.Equal(t, []string{"a=1", "b=2"}, defs)
}

func TestSplitterLogger(t *testing.T) {
	// The logger only fires on a stalled scan, which a forward index
	// scan cannot produce. Make sure a configured logger stays silent on
	// ordinary input.
	buf := bytes.NewBuffer(nil)
	s := Splitter{Logger: slog.New(slog.NewTextHandler(buf, nil))}

	defs := []string{}
	for def := range s.Split("a=1, b=2") {
		defs = append(defs, def)
	}

	assert.Equal(t, []string{"a=1", "b=2"}, defs)
	assert.Empty(t, buf.String())
}

func TestParse(t *testing.T) {
	testcases := []struct {
		desc     string
		input    string
		expected Definition
		wantErr  bool
	}{
		{
			desc:     "name and value only",
			input:    "id=abc",
			expected: Definition{Name: "id", Value: "abc"},
		},
		{
			desc:  "full attribute set",
			input: "id=abc; Path=/; Domain=example.test; Secure; HttpOnly",
			expected: Definition{
				Name:     "id",
				Value:    "abc",
				Path:     "/",
				Domain:   "example.test",
				Secure:   true,
				HTTPOnly: true,
			},
		},
		{
			desc:  "expires attribute",
			input: "id=abc; Expires=Wed, 09 Jun 2021 10:18:14 GMT",
			expected: Definition{
				Name:    "id",
				Value:   "abc",
				Expires: time.Date(2021, time.June, 9, 10, 18, 14, 0, time.UTC),
			},
		},
		{
			desc:     "max-age attribute",
			input:    "id=abc; Max-Age=60",
			expected: Definition{Name: "id", Value: "abc", MaxAge: ptr(60)},
		},
		{
			desc:     "attribute names are case-insensitive",
			input:    "id=abc; PATH=/p; secure",
			expected: Definition{Name: "id", Value: "abc", Path: "/p", Secure: true},
		},
		{
			desc:     "unknown attributes ignored",
			input:    "id=abc; SameSite=Lax",
			expected: Definition{Name: "id", Value: "abc"},
		},
		{
			desc:     "malformed expires dropped",
			input:    "id=abc; Expires=tomorrow",
			expected: Definition{Name: "id", Value: "abc"},
		},
		{
			desc:    "no name-value pair",
			input:   "just-text",
			wantErr: true,
		},
		{
			desc:    "empty name",
			input:   "=abc",
			wantErr: true,
		},
	}
	for _, tc := range testcases {
		t.Run(tc.desc, func(t *testing.T) {
			def, err := Parse(tc.input)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, def)
		})
	}
}

func TestSplitThenParse(t *testing.T) {
	raw := "id=1; Expires=Wed, 09 Jun 2021 10:18:14 GMT, id2=2; Path=/"

	defs := []Definition{}
	for text := range Split(raw) {
		def, err := Parse(text)
		require.NoError(t, err)
		defs = append(defs, def)
	}

	require.Len(t, defs, 2)
	assert.Equal(t, "id", defs[0].Name)
	assert.False(t, defs[0].Expires.IsZero())
	assert.Equal(t, "id2", defs[1].Name)
	assert.Equal(t, "/", defs[1].Path)
}

func TestDefinitionExpired(t *testing.T) {
	clk := clock.NewMock()
	clk.Set(time.Date(2021, time.June, 9, 12, 0, 0, 0, time.UTC))

	testcases := []struct {
		desc     string
		def      Definition
		expected bool
	}{
		{
			desc:     "session cookie never expires",
			def:      Definition{Name: "a", Value: "1"},
			expected: false,
		},
		{
			desc: "expires in the past",
			def: Definition{
				Name:    "a",
				Expires: time.Date(2021, time.June, 9, 10, 18, 14, 0, time.UTC),
			},
			expected: true,
		},
		{
			desc: "expires in the future",
			def: Definition{
				Name:    "a",
				Expires: time.Date(2022, time.January, 1, 0, 0, 0, 0, time.UTC),
			},
			expected: false,
		},
		{
			desc:     "non-positive max-age expires immediately",
			def:      Definition{Name: "a", MaxAge: ptr(0)},
			expected: true,
		},
		{
			desc:     "positive max-age",
			def:      Definition{Name: "a", MaxAge: ptr(60)},
			expected: false,
		},
		{
			desc: "max-age takes precedence over expires",
			def: Definition{
				Name:    "a",
				MaxAge:  ptr(-1),
				Expires: time.Date(2022, time.January, 1, 0, 0, 0, 0, time.UTC),
			},
			expected: true,
		},
	}
	for _, tc := range testcases {
		t.Run(tc.desc, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.def.Expired(clk))
		})
	}
}

func ptr(n int) *int { return &n }
