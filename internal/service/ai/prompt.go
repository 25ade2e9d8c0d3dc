package ai

import (
	"fmt"
	"strings"

	"github.com/mizunoha/kokoro-relay/internal/lexicon"
)

// calmThreshold marks the score below which the prompt asks for extra
// calming language.
const calmThreshold = 50

const basePrompt = `あなたは子どもの気持ちに寄り添う、やさしい会話パートナーです。

守るべきルール：
- 診断や医学的な判断は絶対にしない
- 命令や指示をしない
- 良い悪いの価値判断をしない
- ユーザーの気持ちをそのまま受けとめ、共感的に言い換えて返す
- やさしく、短く、話し言葉で答える`

// BuildSystemPrompt assembles the instruction prompt, embedding the tag
// labels and numeric score as contextual hints for the model.
func BuildSystemPrompt(tags []lexicon.Tag, score int) string {
	var builder strings.Builder
	builder.WriteString(basePrompt)

	if len(tags) > 0 {
		labels := make([]string, 0, len(tags))
		for _, tag := range tags {
			labels = append(labels, tag.Label)
		}
		builder.WriteString("\n\n今回の話題に関係していそうな領域：")
		builder.WriteString(strings.Join(labels, "、"))
	}

	builder.WriteString(fmt.Sprintf("\n\n現在の気分スコアは %d（0=とてもつらい、100=とても元気）です。", score))
	if score < calmThreshold {
		builder.WriteString("\nスコアが低めなので、いつもより落ち着いた、安心できる言葉がけを心がけてください。")
	}

	return builder.String()
}
