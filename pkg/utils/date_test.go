package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatKoreanDate(t *testing.T) {
	d := time.Date(2026, 8, 31, 8, 0, 0, 0, time.UTC)
	assert.Equal(t, "2026년 08월 31일", FormatKoreanDate(d))
}

func TestFormatSignedPct(t *testing.T) {
	up := 0.754
	down := -1.2
	assert.Equal(t, "+0.75%", FormatSignedPct(&up))
	assert.Equal(t, "-1.20%", FormatSignedPct(&down))
	assert.Equal(t, "", FormatSignedPct(nil))
}

func TestTimeNowKST(t *testing.T) {
	now := TimeNowKST()
	assert.Equal(t, "Asia/Seoul", now.Location().String())
}
