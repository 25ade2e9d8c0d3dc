package safety

const safetyMessage = `話してくれてありがとう。あなたの気持ちはとても大切です。ひとりで抱え込まないでください。` +
	`信頼できる大人――家族、先生、スクールカウンセラー――に今の気持ちを伝えてみてください。` +
	`すぐに話せる人がいないときは、こころの健康相談統一ダイヤル（0570-064-556）やチャイルドライン（0120-99-7777）に連絡できます。` +
	`あなたは大切な存在です。`

const breathingGuide = `いっしょに深呼吸をしてみましょう。
1. 鼻からゆっくり4秒かけて息を吸います
2. そのまま2秒とめます
3. 口からゆっくり6秒かけて息をはきます
これを3回くりかえしてみてください。すこし楽になりますよ。`

// Responder produces the fixed escalation script used when a message trips
// the danger detector. The text is static: no personalization, synthesized
// to audio like any normal reply.
type Responder struct{}

// NewResponder returns the static safety responder.
func NewResponder() *Responder {
	return &Responder{}
}

// Message returns the full safety reply: the empathetic escalation text
// followed by the breathing exercise.
func (r *Responder) Message() string {
	return safetyMessage + "\n\n" + breathingGuide
}

// BreathingGuide returns just the breathing exercise, appended to normal
// replies when the sentiment score runs low.
func (r *Responder) BreathingGuide() string {
	return breathingGuide
}
