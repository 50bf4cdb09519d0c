package render

// documentTemplate 是 CV 的 HTML 模板。页面框架放在 <style> 中，
// 与主题相关的颜色、字号、间距全部以内联样式写在元素上，导出结果不依赖外部样式表。
const documentTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<title>{{.Title}}</title>
{{range .FontLinks}}<link rel="stylesheet" href="{{.}}">
{{end}}<style>
@page { size: {{.PageSize}}; margin: {{.PageMargin}}; }
* { box-sizing: border-box; -webkit-print-color-adjust: exact; print-color-adjust: exact; }
html, body { margin: 0; padding: 0; }
.cv-page { width: {{.PageWidth}}; min-height: {{.PageHeight}}; padding: {{.PageMargin}}; margin: 0 auto; }
@media print { .cv-page { width: auto; min-height: 0; padding: 0; margin: 0; } }
.cv-header { display: flex; align-items: center; gap: 16px; }
.cv-header--centered, .cv-header--minimal.cv-photo--center { flex-direction: column; text-align: center; }
.cv-header--split .cv-header-main { flex: 1; }
.cv-header--split .cv-contacts { flex-direction: column; align-items: flex-end; }
.cv-photo--right .cv-photo { order: 2; }
.cv-photo--center { flex-direction: column; text-align: center; }
.cv-photo { width: 96px; height: 96px; border-radius: 50%; object-fit: cover; }
.cv-contacts { display: flex; flex-wrap: wrap; gap: 4px 14px; margin: 0; padding: 0; list-style: none; }
.cv-columns { display: flex; align-items: flex-start; }
.cv-column { display: flex; flex-direction: column; }
.cv-entry-head { display: flex; justify-content: space-between; gap: 8px; }
.cv-entry ul { margin: 4px 0 0 16px; padding: 0; }
.cv-body { white-space: pre-line; margin: 2px 0 0 0; }
.cv-tags { display: flex; flex-wrap: wrap; gap: 4px; margin: 4px 0 0 0; padding: 0; list-style: none; }
</style>
</head>
<body>
<div class="cv-page" style="{{.PageCSS}}">
<header class="cv-header cv-header--{{.Header.Style}} cv-photo--{{.Header.PhotoPosition}}" style="{{.Header.CSS}}">
{{- if .Header.PhotoSrc}}
<img class="cv-photo" src="{{.Header.PhotoSrc}}" alt="{{.Header.Name}}">
{{- end}}
<div class="cv-header-main">
<h1 style="{{.Header.NameCSS}}">{{.Header.Name}}</h1>
{{- if .Header.Headline}}
<p style="{{.Header.HeadlineCSS}}">{{.Header.Headline}}</p>
{{- end}}
</div>
{{- if or .Header.Contacts .Header.Links}}
<ul class="cv-contacts" style="{{.Header.ContactCSS}}">
{{- range .Header.Contacts}}
<li>{{if .Icon}}<span aria-hidden="true">{{.Icon}}</span> {{end}}{{if .Href}}<a href="{{.Href}}" style="color: inherit; text-decoration: none;">{{.Text}}</a>{{else}}{{.Text}}{{end}}</li>
{{- end}}
{{- range .Header.Links}}
<li><a href="{{.URL}}" style="color: inherit;">{{.Label}}</a></li>
{{- end}}
</ul>
{{- end}}
</header>
<main class="cv-columns" style="{{.ColumnsCSS}}">
{{- range .Columns}}
<div class="cv-column" style="{{.CSS}}">
{{- range .Sections}}
<section id="section-{{.ID}}" class="cv-section" style="{{.CSS}}">
<h2 style="{{.HeadingCSS}}">{{.Title}}</h2>
{{- $s := .}}
{{- range .Entries}}
<div class="cv-entry" style="{{$s.EntryCSS}}">
{{- if or .Heading .Period}}
<div class="cv-entry-head"><strong style="{{$s.EntryHeadingCSS}}">{{.Heading}}</strong>{{if .Period}}<span style="{{$s.MetaCSS}}">{{.Period}}</span>{{end}}</div>
{{- end}}
{{- if or .Subheading .Location}}
<div style="{{$s.SubCSS}}">{{.Subheading}}{{if and .Subheading .Location}} · {{end}}{{.Location}}</div>
{{- end}}
{{- if .Meta}}
<div style="{{$s.MetaCSS}}">{{.Meta}}</div>
{{- end}}
{{- if .Body}}
<p class="cv-body">{{richText .Body}}</p>
{{- end}}
{{- if .Bullets}}
<ul>{{range .Bullets}}<li>{{.}}</li>{{end}}</ul>
{{- end}}
{{- if .Tags}}
{{- if $s.Pills}}
<ul class="cv-tags">{{range .Tags}}<li style="{{$s.TagCSS}}">{{.}}</li>{{end}}</ul>
{{- else}}
<div>{{join .Tags ", "}}</div>
{{- end}}
{{- end}}
{{- if .Link}}
<a href="{{.Link}}" style="{{$s.LinkCSS}}">{{.Link}}</a>
{{- end}}
</div>
{{- end}}
</section>
{{- end}}
</div>
{{- end}}
</main>
</div>
</body>
</html>
`
