package translate

import (
	"context"
	"net/url"
)

// Services that work without a credential or with an optional one.

// ---------------------------------------------------------------------------
// LibreTranslate
// ---------------------------------------------------------------------------

type libreTranslate struct {
	conn
	key string
}

func newLibreTranslate(credential string, opts Options) (Translator, error) {
	return &libreTranslate{conn: newConn("LibreTranslate", "https://libretranslate.com", opts, 0), key: credential}, nil
}

func (l *libreTranslate) Translate(ctx context.Context, text, from, to string, _ Options) (string, error) {
	body := map[string]string{
		"q":      text,
		"source": from,
		"target": to,
		"format": "text",
	}
	if l.key != "" {
		body["api_key"] = l.key
	}

	var out struct {
		TranslatedText string `json:"translatedText"`
		Error          string `json:"error"`
	}
	err := l.postJSON(ctx, l.baseURL+"/translate", body, nil, &out)
	if out.Error != "" {
		return "", l.fail(out.Error, "")
	}
	if err != nil {
		return "", err
	}
	if out.TranslatedText == "" {
		return "", l.fail("Invalid response", "")
	}
	return out.TranslatedText, nil
}

// ---------------------------------------------------------------------------
// MyMemory
// ---------------------------------------------------------------------------

type myMemory struct {
	conn
	key string
}

func newMyMemory(credential string, opts Options) (Translator, error) {
	return &myMemory{conn: newConn("MyMemory", "https://api.mymemory.translated.net", opts, 0), key: credential}, nil
}

func (m *myMemory) Translate(ctx context.Context, text, from, to string, _ Options) (string, error) {
	q := url.Values{}
	q.Set("q", text)
	q.Set("langpair", from+"|"+to)
	if m.key != "" {
		q.Set("key", m.key)
	}

	var out struct {
		ResponseData struct {
			TranslatedText string `json:"translatedText"`
		} `json:"responseData"`
		ResponseStatus  flexString `json:"responseStatus"`
		ResponseDetails string     `json:"responseDetails"`
	}
	err := m.get(ctx, m.baseURL+"/get", q, nil, &out)
	if out.ResponseStatus != "" && out.ResponseStatus != "200" {
		return "", m.fail(out.ResponseDetails, string(out.ResponseStatus))
	}
	if err != nil {
		return "", err
	}
	if out.ResponseStatus != "200" {
		return "", m.fail("Invalid response", "")
	}
	return out.ResponseData.TranslatedText, nil
}

// ---------------------------------------------------------------------------
// Lingva Translate
// ---------------------------------------------------------------------------

type lingva struct {
	conn
}

func newLingva(_ string, opts Options) (Translator, error) {
	return &lingva{conn: newConn("Lingva Translate", "https://lingva.ml", opts, 0)}, nil
}

func (l *lingva) Translate(ctx context.Context, text, from, to string, _ Options) (string, error) {
	endpoint := l.baseURL + "/api/v1/" + url.PathEscape(from) + "/" + url.PathEscape(to) + "/" + url.PathEscape(text)

	var out struct {
		Translation string `json:"translation"`
		Error       string `json:"error"`
	}
	err := l.get(ctx, endpoint, nil, nil, &out)
	if out.Error != "" {
		return "", l.fail(out.Error, "")
	}
	if err != nil {
		return "", err
	}
	if out.Translation == "" {
		return "", l.fail("Invalid response", "")
	}
	return out.Translation, nil
}

// ---------------------------------------------------------------------------
// Reverso
// ---------------------------------------------------------------------------

type reverso struct {
	conn
}

func newReverso(_ string, opts Options) (Translator, error) {
	return &reverso{conn: newConn("Reverso", "https://api.reverso.net/translate/v1/translation", opts, 0)}, nil
}

func (r *reverso) Translate(ctx context.Context, text, from, to string, _ Options) (string, error) {
	body := map[string]any{
		"input":  text,
		"from":   from,
		"to":     to,
		"format": "text",
		"options": map[string]any{
			"sentenceSplitter": false,
			"origin":           "translation.web",
		},
	}

	var out struct {
		Translation []string `json:"translation"`
	}
	if err := r.postJSON(ctx, r.baseURL, body, nil, &out); err != nil {
		return "", err
	}
	if len(out.Translation) == 0 {
		return "", r.fail("No translation found in response", "")
	}
	return out.Translation[0], nil
}
