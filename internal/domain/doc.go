// Package domain models QZSS (Michibiki) DC Report broadcast logs.
//
// # Data Source
//
// Records originate from a ground receiver logging the satellite disaster
// and crisis management (DC Report) broadcast channel. The receiver appends
// one line per decoded frame; a decoded message that contains newlines spills
// onto the following physical lines, so one logical record may span several
// lines of the log file.
//
// # Log Format
//
// A record starts with a line of five comma-separated fields:
//
//	2025/08/22 06:00:00 JST,DC Report,QZSS-7,1,災危通報(気象)大雨警報発令
//	timestamp, report type, satellite, priority, message
//
// Only the first four commas delimit fields; the message field keeps any
// further commas. Every following line that does not itself look like a
// record start (a "dddd/" date prefix) belongs to the message body of the
// record above it. Blank lines carry nothing. See [Parser].
//
// # Timestamps
//
// The receiver clock is Japan Standard Time and writes a literal "JST"
// suffix, not a numeric offset:
//
//	2025/08/22 06:00:00 JST
//
// Timestamps are parsed under the fixed UTC+9 zone [JST]. The format is
// assumed stable for a whole log; a timestamp that fails to parse aborts the
// batch ([ErrTimestampFormat]) instead of dropping the record, because a
// format drift invalidates every downstream aggregate.
//
// # Report Types
//
// "DC Report" frames carry real JMA alerts. "DCX" frames are test/exercise
// broadcasts, structurally identical but never real alerts; they are counted
// in volume statistics but excluded from disaster classification.
//
// # Classification
//
// DC Report message bodies embed JMA bulletin markers. Classification is a
// two-level substring scan, ordered and first-match-wins ([Classify]):
//
//	災危通報(気象)  →  Weather:    土砂災害警戒情報 | 大雨警報 | 洪水警報 | other
//	災危通報(震源)  →  Earthquake: always Earthquake Information
//	災危通報(海上)  →  Marine:     海上濃霧警報 | 海上風警報 | other
//	災危通報(洪水)  →  Flood:      氾濫警戒情報 | other
//	(no marker)     →  Other / Other
//
// The marker table is data ([CategoryRule]), so the tagging policy is
// testable on its own and replaceable without touching the scan. Call sites
// holding only a detail label recover the coarse category through
// [CategoryOfDetail], never through ad-hoc keyword checks of their own.
package domain
