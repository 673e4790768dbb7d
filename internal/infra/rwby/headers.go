package rwby

import "net/http"

const userAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/133.0.0.0 Safari/537.36"

// setBrowserHeaders makes the request look like the site's own XHR; bare
// requests are rejected.
func setBrowserHeaders(header http.Header, referer string) {
	header.Set("User-Agent", userAgent)
	header.Set("Accept", "*/*")
	header.Set("Accept-Language", "en-GB,en;q=0.9,ru-RU;q=0.8,ru;q=0.7,en-US;q=0.6")
	header.Set("Referer", referer)
	header.Set("X-Requested-With", "XMLHttpRequest")
}
