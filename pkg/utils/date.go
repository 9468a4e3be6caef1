package utils

import (
	"log"
	"time"
)

func TimeNowKST() time.Time {
	loc, err := time.LoadLocation("Asia/Seoul")
	if err != nil {
		log.Fatal("Failed to load location", err)
	}
	return time.Now().In(loc)
}

// FormatKoreanDate renders a date as "2026년 01월 02일".
func FormatKoreanDate(t time.Time) string {
	return t.Format("2006년 01월 02일")
}
