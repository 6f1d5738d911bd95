package usecase

import (
	"fmt"
	"strings"
	"time"

	"StockRadar/internal/domain"
)

// FormatAlert renders the market-aware notification text for one candidate
// and its assessment. Telegram Markdown conventions.
func FormatAlert(candidate domain.Candidate, assessment domain.Assessment, now time.Time) string {
	var b strings.Builder

	b.WriteString(urgencyBanner(assessment.Score))
	b.WriteString("\n\n")

	fmt.Fprintf(&b, "%s *AI score: %.1f/10*\n\n", marketFlag(candidate.Market), assessment.Score)

	if candidate.Market == domain.MarketKR {
		fmt.Fprintf(&b, "*%s*\n", candidate.DisplayName())
		if candidate.HasPrice() {
			fmt.Fprintf(&b, "Price: %s KRW\n", groupDigits(int64(candidate.Price)))
		}
	} else {
		fmt.Fprintf(&b, "*$%s*\n", candidate.Symbol)
		if candidate.HasPrice() {
			fmt.Fprintf(&b, "Price: $%.2f\n", candidate.Price)
		}
	}

	if candidate.ChangePercent != 0 {
		fmt.Fprintf(&b, "Change: *%+.2f%%*\n", candidate.ChangePercent)
	}
	if candidate.Volume > 0 {
		fmt.Fprintf(&b, "Volume: %s\n", groupDigits(int64(candidate.Volume)))
	}

	fmt.Fprintf(&b, "\n*Trigger:* %s\n\n", candidate.TriggerReason)

	b.WriteString("*AI analysis*\n")
	fmt.Fprintf(&b, "_%s_\n\n", assessment.Summary)

	if candidate.HasPrice() && assessment.TargetPrice > 0 {
		b.WriteString("*Strategy*\n")
		if candidate.Market == domain.MarketKR {
			fmt.Fprintf(&b, "Entry: %s KRW\n", groupDigits(int64(assessment.EntryPrice)))
			fmt.Fprintf(&b, "Target: %s KRW *(+%.0f%%)*\n", groupDigits(int64(assessment.TargetPrice)), assessment.Upside)
			fmt.Fprintf(&b, "Stop: %s KRW (-%.0f%%)\n\n", groupDigits(int64(assessment.StopLoss)), assessment.Risk)
		} else {
			fmt.Fprintf(&b, "Entry: $%.2f\n", assessment.EntryPrice)
			fmt.Fprintf(&b, "Target: $%.2f *(+%.0f%%)*\n", assessment.TargetPrice, assessment.Upside)
			fmt.Fprintf(&b, "Stop: $%.2f (-%.0f%%)\n\n", assessment.StopLoss, assessment.Risk)
		}
	}

	fmt.Fprintf(&b, "*Risk:* %s\n", assessment.RiskLevel)
	fmt.Fprintf(&b, "*Position size:* %.0f%%\n\n", assessment.PositionSize)

	if candidate.NewsURL != "" {
		fmt.Fprintf(&b, "[Source](%s)\n\n", candidate.NewsURL)
	}

	fmt.Fprintf(&b, "_%s_\n\n", assessment.Reasoning)
	b.WriteString(now.Format("2006-01-02 15:04:05"))

	return b.String()
}

func urgencyBanner(score float64) string {
	switch {
	case score >= 9:
		return "🚨 *TENBAGGER POTENTIAL* 🚨"
	case score >= 8:
		return "⚠️ *HIGH PRIORITY* ⚠️"
	default:
		return "📢 *OPPORTUNITY* 📢"
	}
}

func marketFlag(market domain.Market) string {
	if market == domain.MarketKR {
		return "🇰🇷"
	}
	return "🇺🇸"
}

// groupDigits renders 1234567 as "1,234,567".
func groupDigits(v int64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}

	digits := fmt.Sprintf("%d", v)
	if len(digits) <= 3 {
		return sign + digits
	}

	var parts []string
	for len(digits) > 3 {
		parts = append([]string{digits[len(digits)-3:]}, parts...)
		digits = digits[:len(digits)-3]
	}
	parts = append([]string{digits}, parts...)
	return sign + strings.Join(parts, ",")
}
