package pages

const pageTemplate = `<!DOCTYPE html>
<html lang="en-GB">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>{{if ne .Name "home"}}{{.Title}} | {{end}}{{.SiteName}}</title>
  <style>
    body { font-family: Georgia, serif; margin: 0; color: #2b2118; background: #fbf8f3; }
    header { background: #3b2a1a; padding: 1rem 2rem; }
    header a { color: #f3e6cf; margin-right: 1.5rem; text-decoration: none; }
    header a.active { border-bottom: 2px solid #c9a25c; }
    main { max-width: 52rem; margin: 2rem auto; padding: 0 1.5rem; line-height: 1.6; }
    table { border-collapse: collapse; }
    th, td { border: 1px solid #d8ccb8; padding: .4rem .8rem; text-align: left; }
    pre { padding: 1rem; overflow-x: auto; }
    footer { text-align: center; padding: 2rem; font-size: .9rem; color: #7a6a58; }
  </style>
</head>
<body>
  <header>
    <nav>
      {{range .Nav}}<a href="{{.Href}}"{{if .Active}} class="active"{{end}}>{{.Label}}</a>{{end}}
    </nav>
  </header>
  <main>
    {{.Content}}
  </main>
  <footer>&copy; {{.SiteName}}</footer>
</body>
</html>
`
