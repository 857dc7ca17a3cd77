package domain

import (
	"html"
	"regexp"
)

// エスケープ後のテキストから追加除去する危険パターン。
// タグはエスケープ済み形（&lt; ... &gt;）で照合し、属性付きも許容する。
var (
	dangerousProtocolPattern = regexp.MustCompile(`(?i)(?:javascript|data|vbscript)\s*:`)
	eventHandlerPattern      = regexp.MustCompile(`(?i)\bon[a-z]+\s*=`)
	escapedTagPattern        = regexp.MustCompile(`(?i)&lt;\s*/?\s*(?:script|iframe|object|embed|link|meta|img)\b.*?(?:&gt;|$)`)
)

// SanitizeComment はコメント本文を HTML エスケープし、エスケープ後も残る
// 危険なプロトコル接頭辞・イベントハンドラ属性・危険タグを除去する。
// nil はそのまま通す。どんな入力でもエラーにはならず、最悪でも空文字になる。
func SanitizeComment(text *string) *string {
	if text == nil {
		return nil
	}
	out := SanitizeText(*text)
	return &out
}

// SanitizeText は SanitizeComment の値渡し版。
func SanitizeText(text string) string {
	escaped := html.EscapeString(text)
	escaped = escapedTagPattern.ReplaceAllString(escaped, "")
	escaped = dangerousProtocolPattern.ReplaceAllString(escaped, "")
	escaped = eventHandlerPattern.ReplaceAllString(escaped, "")
	return escaped
}

// SanitizeCommentSet は 6 カテゴリすべてのコメントへサニタイズを適用する。
func SanitizeCommentSet(comments CommentSet) CommentSet {
	return comments.Transform(SanitizeText)
}
