package web

import "html/template"

// parsePages builds one template set per page, each sharing the layout
func parsePages() map[string]*template.Template {
	layout := template.Must(template.New("layout").Parse(layoutTpl))
	pages := make(map[string]*template.Template, 4)
	for name, src := range map[string]string{
		"home":      homeTpl,
		"details":   detailsTpl,
		"message":   messageTpl,
		"watchlist": watchlistTpl,
	} {
		pages[name] = template.Must(template.Must(layout.Clone()).Parse(src))
	}
	return pages
}

const layoutTpl = `{{define "base"}}<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8" />
<meta name="viewport" content="width=device-width, initial-scale=1" />
<title>{{.Title}} · Movie Browser</title>
<style>
body{font-family:system-ui,-apple-system,Segoe UI,Roboto;margin:0;transition:background .3s,color .3s}
body.dark-mode{background:#151515;color:#f2f2f2}
body.light-mode{background:#f6f6f6;color:#151515}
a{color:inherit}
.navbar{display:flex;gap:16px;align-items:center;justify-content:space-between;padding:12px 24px;border-bottom:1px solid #444}
.brand{font-weight:700;color:rgb(255,70,70);text-decoration:none}
.search-container{display:flex;flex:1;max-width:420px;border:1px solid #666;border-radius:20px;padding:4px 12px}
.search-input{flex:1;border:0;background:transparent;color:inherit;outline:none}
main{padding:16px 24px}
.movie-list-container{margin-bottom:32px}
.movie-list-wrapper{position:relative;overflow:hidden}
.movie-list{display:flex;list-style:none;padding:0;margin:0;transition:transform 1s ease-in-out}
.movie-item{flex:0 0 auto;margin-right:10px;position:relative}
.movie-item-img{width:100%;height:auto;border-radius:6px;display:block}
.movie-item-title{font-weight:600}
.arrow{position:absolute;top:40%;z-index:2;font-size:48px;text-decoration:none;background:rgba(0,0,0,.4);color:#fff;padding:0 12px;border-radius:6px}
.arrow-left{left:0}
.arrow-right{right:0}
.movie-details-wrapper{display:flex;gap:24px;flex-wrap:wrap}
.movie-poster img{max-width:300px;border-radius:8px}
.movie-tagline{font-style:italic;opacity:.8}
.movie-reactions button.active{outline:2px solid rgb(255,70,70)}
.message{padding:48px 0;text-align:center}
.watchlist{list-style:none;padding:0;display:flex;flex-wrap:wrap;gap:16px}
.watchlist-item{width:160px}
.watchlist-item img{width:100%;border-radius:6px}
</style>
</head>
<body class="{{.Theme.BodyClass}}">
<nav class="navbar">
  <a class="brand" href="/">Movie Browser</a>
  <form class="search-container" action="/search" method="get">
    <input class="search-input" type="search" name="q" value="{{.Query}}" placeholder="Search movies" />
  </form>
  <a class="nav-link" href="/watchlist">Watchlist</a>
  <form class="theme-toggle" action="/theme" method="post">
    <input type="hidden" name="return" value="{{.ReturnPath}}" />
    <button type="submit">{{.Theme.ToggleLabel}}</button>
  </form>
</nav>
<main>
{{template "content" .}}
</main>
</body>
</html>
{{end}}`

const homeTpl = `{{define "content"}}
<style>.movie-item{width:{{.ItemWidth}}px}</style>
<form class="sort-form" action="/" method="get">
  <label for="sort">Sort by</label>
  <select id="sort" name="sort" class="sort-select">
  {{range .SortOptions}}<option value="{{.Value}}"{{if .Selected}} selected{{end}}>{{.Label}}</option>
  {{end}}</select>
  <input type="hidden" name="vw" value="{{.Viewport}}" />
  <button type="submit">Sort</button>
</form>
{{range .Lists}}
<section class="movie-list-container" id="{{.Name}}">
  <h2 class="movie-list-title">{{.Label}}</h2>
  {{if .Items}}
  <div class="movie-list-wrapper">
    {{if .PrevURL}}<a class="arrow arrow-left" href="{{.PrevURL}}" aria-label="Scroll left">‹</a>{{end}}
    <ul class="movie-list" style="transform: translateX({{.TranslateX}}px)">
      {{range .Items}}{{.}}{{end}}
    </ul>
    {{if .NextURL}}<a class="arrow arrow-right" href="{{.NextURL}}" aria-label="Scroll right">›</a>{{end}}
  </div>
  {{else}}
  <p class="movie-list-empty">No movies found.</p>
  {{end}}
</section>
{{end}}
{{end}}`

const detailsTpl = `{{define "content"}}
<div class="movie-details-wrapper">
  <div class="movie-poster">
    {{if .PosterURL}}<img src="{{.PosterURL}}" alt="{{.Title}} Poster" />{{end}}
  </div>
  <div class="movie-info">
    <h1 class="movie-title">{{.Title}}</h1>
    {{with .Movie.Tagline}}<p class="movie-tagline">{{.}}</p>{{end}}
    <p class="movie-rating">★ {{printf "%.1f" .Movie.VoteAverage}}/10 <small>({{.Votes}} votes)</small></p>
    <p class="movie-year">{{.Movie.ReleaseDate}}</p>
    {{with .Runtime}}<p class="movie-runtime">{{.}}</p>{{end}}
    {{with .Genres}}<p class="movie-genres">{{.}}</p>{{end}}
    <p class="movie-description">{{.Movie.Overview}}</p>
    {{if .CanReact}}
    <form class="movie-reactions" action="/movie/{{.Movie.ID}}/reaction" method="post">
      <input type="hidden" name="return" value="{{.ReturnPath}}" />
      <button type="submit" name="reaction" value="like" class="reaction-like{{if eq .State.Reaction "like"}} active{{end}}">Like</button>
      <button type="submit" name="reaction" value="dislike" class="reaction-dislike{{if eq .State.Reaction "dislike"}} active{{end}}">Dislike</button>
      <button type="submit" name="reaction" value="watchlist" class="reaction-watchlist{{if .State.Watchlist}} active{{end}}">{{if .State.Watchlist}}On watchlist{{else}}Add to watchlist{{end}}</button>
    </form>
    {{end}}
  </div>
</div>
{{end}}`

const messageTpl = `{{define "content"}}
<div class="message">
  <p class="message-text">{{.Message}}</p>
  <a href="/">Back to movies</a>
</div>
{{end}}`

const watchlistTpl = `{{define "content"}}
<h1 class="watchlist-title">Watchlist</h1>
{{if .Entries}}
<ul class="watchlist">
  {{range .Entries}}<li class="watchlist-item" data-movie-id="{{.ID}}">
    <a href="/movie?id={{.ID}}">{{if .PosterURL}}<img src="{{.PosterURL}}" alt="{{.Title}} Poster" />{{end}}<span class="watchlist-item-title">{{.Title}}</span></a>
  </li>
  {{end}}
</ul>
{{else}}
<p class="watchlist-empty">Your watchlist is empty.</p>
{{end}}
{{end}}`
