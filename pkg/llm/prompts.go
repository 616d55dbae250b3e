package llm

import (
	"fmt"
	"strings"
)

const systemPromptZH = `你是一位华尔街资深分析师。请根据用户提供的【最新新闻】和【播客观点】，写一份Markdown格式的【每日金融晨报】。

要求：
1. 包含"市场情绪"、"宏观分析"、"Web3观察"和"操作建议"四个板块。
2. 风格专业、犀利、简洁，使用Emoji增加可读性。
3. 引用新闻中的数字时，必须写成Markdown链接，指向该数字来源的URL，例如 [98,000美元](https://example.com/source)。
4. 只引用新闻中带 [编号] 标记的来源，不要编造来源。
5. 如果给出推算得到的数字，必须在括号内注明计算公式，例如（环比 = (本期-上期)/上期）。`

const systemPromptEN = `You are a senior Wall Street analyst. Using the provided news passages and podcast insight, write a Daily Market Briefing in Markdown.

Requirements:
1. Four sections: "Market Sentiment", "Macro Analysis", "Web3 Watch", "Action Items".
2. Professional, sharp, concise. Use emoji for readability.
3. Every numeric claim taken from the news must be a Markdown link pointing at the URL of its source, e.g. [98,000 USD](https://example.com/source).
4. Cite only the numbered [n] sources in the passages; never invent a source.
5. Any derived figure must carry its computation formula inline, e.g. (WoW = (current - prior) / prior).`

func buildUserPrompt(input BriefingInput) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("主题 / Topic: %s\n\n", input.Topic))
	sb.WriteString("【最新新闻】:\n")
	sb.WriteString(input.Passages)
	sb.WriteString("\n\n【播客观点】:\n")
	sb.WriteString(input.Insight)
	return sb.String()
}
