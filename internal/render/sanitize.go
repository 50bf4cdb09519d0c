package render

import (
	"html/template"

	"github.com/microcosm-cc/bluemonday"
)

// bodyPolicy 只保留学术正文常用的行内标记：强调、上下标与带 http(s) 的链接。
var bodyPolicy = func() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements("b", "strong", "i", "em", "u", "sub", "sup", "br", "code")
	p.AllowAttrs("href").OnElements("a")
	p.AllowURLSchemes("http", "https", "mailto")
	p.RequireParseableURLs(true)
	p.RequireNoFollowOnLinks(true)
	p.AddTargetBlankToFullyQualifiedLinks(true)
	return p
}()

// richText 清洗正文中的 HTML 片段，结果可直接嵌入模板。
func richText(s string) template.HTML {
	return template.HTML(bodyPolicy.Sanitize(s))
}
