package report

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Locales the reports and charts can render in. English is the fallback:
// catalog keys are the English phrases themselves.
var (
	LocaleJapanese = language.Japanese
	LocaleEnglish  = language.English
)

// ParseLocale resolves a config/flag value to a supported language tag.
func ParseLocale(s string) (language.Tag, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ja", "jp", "japanese":
		return LocaleJapanese, nil
	case "en", "english":
		return LocaleEnglish, nil
	default:
		return language.Und, fmt.Errorf("unsupported locale %q (use ja or en)", s)
	}
}

// NewPrinter returns a printer bound to the shared translation catalog.
// Printers are the only way locale reaches rendering code; there is no
// ambient locale state.
func NewPrinter(tag language.Tag) *message.Printer {
	return message.NewPrinter(tag, message.Catalog(translations))
}

// translations maps the English phrases to Japanese. Argument order is
// identical in every pair, so the catalog never needs indexed verbs.
var translations = func() catalog.Catalog {
	b := catalog.NewBuilder(catalog.Fallback(LocaleEnglish))
	for key, ja := range japanese {
		if err := b.SetString(LocaleJapanese, key, ja); err != nil {
			panic(fmt.Sprintf("register %q: %v", key, err))
		}
	}
	return b
}()

var japanese = map[string]string{
	// Titles.
	"# QZSS DC Report Analysis":              "# QZSS DCレポート 分析レポート",
	"# QZSS DC Report Detailed Analysis":     "# QZSS DCレポート 詳細分析レポート",
	"# QZSS DC Report Analysis (from %s)":    "# QZSS DCレポート 分析レポート（%s以降）",
	"# QZSS DC Report Hourly Trend Analysis": "# QZSS DCレポート 1時間毎トレンド分析レポート",

	// Section headings.
	"## Overview":                  "## 概要",
	"## Report Type Breakdown":     "## 種別内訳",
	"## Priority Breakdown":        "## 優先度別内訳",
	"## Satellite Breakdown":       "## 衛星別内訳",
	"## Disaster Categories":       "## 災害種別内訳",
	"## Disaster Details (top %d)": "## 詳細災害種別（上位%d件）",
	"## Temporal Analysis":         "## 時間分析",
	"## Hourly Statistics":         "## 時間毎統計",
	"## Hourly Buckets":            "## 時間毎内訳",
	"## Key Findings":              "## 主要な発見",

	// Overview lines.
	"- Total records: %d":       "- 総レコード数: %d件",
	"- Period: %s to %s":        "- 期間: %s 〜 %s",
	"- Days covered: %d":        "- 対象日数: %d日",
	"- Duration: %.1f hours":    "- 期間: %.1f時間",
	"- Hours observed: %d":      "- 対象時間数: %d時間",
	"- DC Report: %d / DCX: %d": "- DC Report: %d件 / DCX: %d件",

	// Breakdown lines.
	"- %s: %d (%.1f%%)":                                       "- %s: %d件（%.1f%%）",
	"- %s: DC Report %d / DCX %d (total %d)":                  "- %s: DC Report %d件 / DCX %d件（計%d件）",
	"- DC Report: real disaster and crisis management alerts": "- DC Report: 実際の災害・危機管理通報",
	"- DCX: test and exercise broadcasts":                     "- DCX: 試験・訓練用配信",

	// Temporal lines.
	"- Peak hour: %02d:00 (%d records)":                           "- ピーク時間帯: %02d時（%d件）",
	"- Most active day: %s (%d records)":                          "- 最多曜日: %s（%d件）",
	"- Busiest hour: %s (%d records)":                             "- 最多時間帯: %s（%d件）",
	"- Average per hour: DC Report %.1f / DCX %.1f / total %.1f":  "- 1時間平均: DC Report %.1f件 / DCX %.1f件 / 計%.1f件",
	"- DC Report peak: %s (%d records)":                           "- DC Reportピーク: %s（%d件）",
	"- DCX peak: %s (%d records)":                                 "- DCXピーク: %s（%d件）",
	"- %s: %d DC Report / %d DCX / %d total":                      "- %s: DC Report %d件 / DCX %d件 / 計%d件",

	// Findings.
	"%d. Logged %d broadcasts between %s and %s.":                                "%d. %d件の放送を%s〜%sに記録。",
	"%d. Real alerts (DC Report) make up %.1f%% of traffic, tests (DCX) %.1f%%.": "%d. 実通報（DC Report）が全体の%.1f%%、試験配信（DCX）が%.1f%%を占める。",
	"%d. Satellite %s relayed the most broadcasts (%.1f%%).":                     "%d. 衛星%sの中継が最多（%.1f%%）。",
	"%d. The dominant disaster category is %s (%.1f%% of DC Reports).":           "%d. 最多の災害種別は%s（DC Reportの%.1f%%）。",
	"%d. Activity peaks at %02d:00 with %d broadcasts.":                          "%d. 活動のピークは%02d時で%d件。",
	"%d. %s sees the most traffic.":                                              "%d. %sの受信が最多。",
	"%d. Cumulative volume reached %d records by %s.":                            "%d. 累積件数は%d件に到達（%s時点）。",
	"%d. Average activity is %.1f broadcasts per hour.":                          "%d. 1時間あたり平均%.1f件の放送。",

	// Classification labels (keys are the stable enum codes).
	"Weather":    "気象",
	"Earthquake": "地震",
	"Marine":     "海上",
	"Flood":      "洪水",
	"Other":      "その他",

	"Sediment Disaster Warning": "土砂災害警戒情報",
	"Heavy Rain Warning":        "大雨警報",
	"Flood Warning":             "洪水警報",
	"Weather Other":             "気象その他",
	"Earthquake Information":    "地震情報",
	"Marine Dense Fog Warning":  "海上濃霧警報",
	"Marine Wind Warning":       "海上風警報",
	"Marine Other":              "海上その他",
	"Flood Risk Information":    "氾濫警戒情報",
	"Flood Other":               "洪水その他",

	// Weekdays.
	"Monday":    "月曜日",
	"Tuesday":   "火曜日",
	"Wednesday": "水曜日",
	"Thursday":  "木曜日",
	"Friday":    "金曜日",
	"Saturday":  "土曜日",
	"Sunday":    "日曜日",

	// Chart titles and axes.
	"Report Types":          "種別分布",
	"Satellites":            "衛星別分布",
	"Hourly Distribution":   "時間帯別分布",
	"Daily Distribution":    "日別分布",
	"Disaster Categories":   "災害種別分布",
	"Disaster Details":      "詳細災害種別",
	"Hour x Type Density":   "時間×種別密度",
	"Date x Type Density":   "日付×種別密度",
	"Activity by Hour":      "時間毎活動状況",
	"Hourly Trend":          "時間毎トレンド",
	"Cumulative Broadcasts": "累積放送数",
	"Moving Average (3h)":   "移動平均（3時間）",
	"DC Report Ratio":       "DC Report比率",
	"Records":               "件数",
	"Hour":                  "時間",
	"Date":                  "日付",
	"Percent":               "比率（％）",
}
