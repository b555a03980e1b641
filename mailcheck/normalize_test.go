package mailcheck

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

const sampleMail = `Date: Tue, 2 May 2023 12:00:00 +0200
Subject: Welcome
Content-Type: multipart/alternative; boundary="------------abc123DEF"
MIME-Version: 1.0

--------------abc123DEF
Content-Transfer-Encoding: quoted-printable

Hello, your account was created on 2023-05-02 with login=3Dtester. Your ve=
ry long welcome message continues here.
--------------abc123DEF--
`

func TestToTextJoinsSoftLineBreaks(t *testing.T) {
	text := ToText(sampleMail)
	assert.Contains(t, text, "Your very long welcome message")
	assert.NotContains(t, text, "=\n")
}

func TestToTextDecodesEscapedEquals(t *testing.T) {
	assert.Equal(t, "login=tester", ToText("login=3Dtester"))
}

func TestToTextHandlesCRLFSoftBreaks(t *testing.T) {
	assert.Equal(t, "one line", ToText("one li=\r\nne"))
}

func TestToTextIsIdempotent(t *testing.T) {
	once := ToText(sampleMail)
	assert.Equal(t, once, ToText(once))
}

func TestNormalizeReplacesBoundaryTokens(t *testing.T) {
	lines := Normalize(sampleMail)
	joined := strings.Join(lines, "\n")
	assert.NotContains(t, joined, "abc123DEF")
	assert.Contains(t, joined, `boundary="boundary"`)
}

func TestNormalizeReplacesDates(t *testing.T) {
	lines := Normalize(sampleMail)
	joined := strings.Join(lines, "\n")
	assert.NotContains(t, joined, "2023-05-02")
	assert.Contains(t, joined, "created on --date--")
	assert.Contains(t, joined, "Date: ***")
}

func TestNormalizeIsStableAcrossVolatileTokens(t *testing.T) {
	other := strings.ReplaceAll(sampleMail, "abc123DEF", "xyz789GHI")
	other = strings.ReplaceAll(other, "2023-05-02", "2024-11-30")
	other = strings.ReplaceAll(other, "Date: Tue, 2 May 2023 12:00:00 +0200", "Date: Sat, 30 Nov 2024 08:15:00 +0100")

	assert.Equal(t, Normalize(sampleMail), Normalize(other),
		"mails differing only in boundary and dates must normalize identically")
}
