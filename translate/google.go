package translate

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// reserved options configure the driver itself and are never forwarded to
// a provider as request parameters.
var reserved = map[string]bool{
	"baseUrl": true,
	"timeout": true,
	"proxy":   true,
}

// forward copies the caller's extra options into provider parameters.
func forward(v url.Values, opts Options, skip ...string) {
	for k := range opts {
		if reserved[k] || contains(skip, k) {
			continue
		}
		if s := opts.String(k, ""); s != "" {
			v.Set(k, s)
		}
	}
}

func contains(list []string, s string) bool {
	for _, x := range list {
		if x == s {
			return true
		}
	}
	return false
}

// ---------------------------------------------------------------------------
// Google Cloud Translation v2
// ---------------------------------------------------------------------------

type google struct {
	conn
	key string
}

func newGoogle(credential string, opts Options) (Translator, error) {
	return &google{
		conn: newConn("Google Translate", "https://translation.googleapis.com/language/translate/v2", opts, 0),
		key:  credential,
	}, nil
}

func (g *google) Translate(ctx context.Context, text, from, to string, opts Options) (string, error) {
	q := url.Values{}
	q.Set("q", text)
	q.Set("target", to)
	q.Set("format", "html")
	q.Set("key", g.key)
	forward(q, opts)
	if from != "" {
		q.Set("source", from)
	}

	var out struct {
		Data struct {
			Translations []struct {
				TranslatedText string `json:"translatedText"`
			} `json:"translations"`
		} `json:"data"`
		Error *struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	err := g.get(ctx, g.baseURL, q, nil, &out)
	if out.Error != nil && out.Error.Message != "" {
		return "", g.fail(out.Error.Message, "")
	}
	if err != nil {
		return "", err
	}
	if len(out.Data.Translations) == 0 {
		return "", g.fail("no translation in response", "")
	}
	return out.Data.Translations[0].TranslatedText, nil
}

// ---------------------------------------------------------------------------
// Google Translate web endpoint (no key)
// ---------------------------------------------------------------------------

const chromeUserAgent = "Mozilla/5.0 (Windows NT 6.1; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/66.0.3359.181 Safari/537.36"

type googleFree struct {
	conn
}

func newGoogleFree(_ string, opts Options) (Translator, error) {
	return &googleFree{
		conn: newConn("Google Free Translate", "https://translate.google.com/translate_a/single", opts, 10*time.Second),
	}, nil
}

func (g *googleFree) Translate(ctx context.Context, text, from, to string, _ Options) (string, error) {
	q := url.Values{}
	q.Set("client", "gtx")
	q.Set("sl", from)
	q.Set("tl", to)
	q.Set("hl", "en")
	q.Set("dt", "t")
	q.Set("ie", "UTF-8")
	q.Set("oe", "UTF-8")
	q.Set("q", text)
	q.Set("tk", googleToken(text))

	header := http.Header{}
	header.Set("User-Agent", chromeUserAgent)

	// [[["Hallo","Hello",null,null,1]],null,"en"]
	var out []any
	if err := g.get(ctx, g.baseURL, q, header, &out); err != nil {
		return "", err
	}
	if len(out) == 0 {
		return "", g.fail("invalid response from Google Translate", "")
	}
	sentences, ok := out[0].([]any)
	if !ok {
		return "", g.fail("invalid response from Google Translate", "")
	}
	var b strings.Builder
	for _, s := range sentences {
		parts, ok := s.([]any)
		if !ok || len(parts) == 0 {
			continue
		}
		if str, ok := parts[0].(string); ok {
			b.WriteString(str)
		}
	}
	return b.String(), nil
}

// googleToken computes the "tk" request token of the web endpoint with a
// zero TKK seed.
func googleToken(text string) string {
	const tkk = 0

	a := int64(tkk)
	for _, c := range []byte(text) {
		a += int64(c)
		a = tokenTransform(a, "+-a^+6")
	}
	a = tokenTransform(a, "+-3^+b+-f")
	a = int64(int32(uint32(a) ^ tkk))
	if a < 0 {
		a = (a & 0x7fffffff) + 2147483648
	}
	a %= 1000000

	return strconv.FormatInt(a, 10) + "." + strconv.FormatInt(a^tkk, 10)
}

// tokenTransform applies a seed program of three-character instructions
// using 32-bit integer arithmetic.
func tokenTransform(value int64, seed string) int64 {
	for d := 0; d+2 < len(seed); d += 3 {
		ch := seed[d+2]
		var c int64
		if ch >= 'a' {
			c = int64(ch) - 87
		} else {
			c = int64(ch - '0')
		}

		shift := uint(c & 31)
		if seed[d+1] == '+' {
			c = int64(uint32(value) >> shift)
		} else {
			c = int64(int32(uint32(value) << shift))
		}

		if seed[d] == '+' {
			value = int64(int32(uint32(value + c)))
		} else {
			value = int64(int32(uint32(value) ^ uint32(c)))
		}
	}
	return value
}
