package telegram

import (
	"fmt"
	"strings"
)

// FormatReportNotification builds the Markdown message sent to a
// subscriber when a new report is ready. The body is the first summary
// line; the deep link opens the report in the web client.
func FormatReportNotification(title, summary, deepLink string) string {
	body := "새 리포트를 확인하세요"
	if summary != "" {
		if line := strings.SplitN(summary, "\n", 2)[0]; line != "" {
			body = line
		}
	}

	var b strings.Builder
	b.WriteString("📊 *새 경제 리포트 도착*\n\n")
	b.WriteString(fmt.Sprintf("*%s*\n", title))
	b.WriteString(fmt.Sprintf("%s\n\n", body))
	b.WriteString(fmt.Sprintf("🔗 %s", deepLink))
	return b.String()
}
