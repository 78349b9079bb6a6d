package service

import (
	"log"
	"strings"
	"unicode/utf8"
)

// 日志里保留的提示词/回复片段长度，超出部分截断
const writerLogSnippetRunes = 800

// logWriterExchange 记录写作助手一次往返的提示词或回复片段，
// 用于排查模型输出不合预期的情况。
func logWriterExchange(task, direction, text string) {
	body := strings.TrimSpace(text)
	if body == "" {
		log.Printf("[writer:%s] %s: <empty>", task, direction)
		return
	}

	total := utf8.RuneCountInString(body)
	if total > writerLogSnippetRunes {
		body = string([]rune(body)[:writerLogSnippetRunes]) + "...(truncated)"
	}
	log.Printf("[writer:%s] %s (%d runes): %s", task, direction, total, body)
}
