package translate

import (
	"context"
	"net/http"
	"net/url"
)

// ---------------------------------------------------------------------------
// SYSTRAN
// ---------------------------------------------------------------------------

type systran struct {
	conn
	key string
}

func newSystran(credential string, opts Options) (Translator, error) {
	if err := requireCredential("Systran", credential); err != nil {
		return nil, err
	}
	return &systran{conn: newConn("Systran", "https://api-platform.systran.net", opts, 0), key: credential}, nil
}

func (s *systran) Translate(ctx context.Context, text, from, to string, _ Options) (string, error) {
	q := url.Values{}
	q.Set("key", s.key)
	q.Set("input", text)
	q.Set("source", from)
	q.Set("target", to)

	var out struct {
		Outputs []struct {
			Output string `json:"output"`
		} `json:"outputs"`
		Error *struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	err := s.get(ctx, s.baseURL+"/translation/text/translate", q, nil, &out)
	if out.Error != nil && out.Error.Message != "" {
		return "", s.fail(out.Error.Message, "")
	}
	if err != nil {
		return "", err
	}
	if len(out.Outputs) == 0 {
		return "", s.fail("no translation in response", "")
	}
	return out.Outputs[0].Output, nil
}

// ---------------------------------------------------------------------------
// ModernMT
// ---------------------------------------------------------------------------

type modernMT struct {
	conn
	key string
}

func newModernMT(credential string, opts Options) (Translator, error) {
	if err := requireCredential("ModernMT", credential); err != nil {
		return nil, err
	}
	return &modernMT{conn: newConn("ModernMT", "https://api.modernmt.com", opts, 0), key: credential}, nil
}

func (m *modernMT) Translate(ctx context.Context, text, from, to string, opts Options) (string, error) {
	body := map[string]any{
		"q":      text,
		"source": from,
		"target": to,
	}
	if c := opts.String("context", ""); c != "" {
		body["context"] = c
	}
	header := http.Header{}
	header.Set("Authorization", "ApiKey "+m.key)

	var out struct {
		Data struct {
			Translation string `json:"translation"`
		} `json:"data"`
		Error *struct {
			Message string `json:"message"`
			Type    string `json:"type"`
		} `json:"error"`
	}
	err := m.postJSON(ctx, m.baseURL+"/translate", body, header, &out)
	if out.Error != nil && out.Error.Message != "" {
		return "", m.fail(out.Error.Message, out.Error.Type)
	}
	if err != nil {
		return "", err
	}
	return out.Data.Translation, nil
}

// ---------------------------------------------------------------------------
// Lilt
// ---------------------------------------------------------------------------

type lilt struct {
	conn
	key string
}

func newLilt(credential string, opts Options) (Translator, error) {
	if err := requireCredential("Lilt", credential); err != nil {
		return nil, err
	}
	return &lilt{conn: newConn("Lilt", "https://api.lilt.com/2", opts, 0), key: credential}, nil
}

func (l *lilt) Translate(ctx context.Context, text, from, to string, opts Options) (string, error) {
	body := map[string]any{
		"q":           text,
		"source_lang": from,
		"target_lang": to,
	}
	if id := opts.Number("memory_id", 0); id != 0 {
		body["memory_id"] = int64(id)
	}
	header := http.Header{}
	header.Set("Authorization", "ApiKey "+l.key)

	var out struct {
		Data struct {
			Target string `json:"target"`
		} `json:"data"`
		Error *struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	err := l.postJSON(ctx, l.baseURL+"/translate", body, header, &out)
	if out.Error != nil && out.Error.Message != "" {
		return "", l.fail(out.Error.Message, "")
	}
	if err != nil {
		return "", err
	}
	return out.Data.Target, nil
}

// ---------------------------------------------------------------------------
// Unbabel
// ---------------------------------------------------------------------------

type unbabel struct {
	conn
	key      string
	username string
}

func newUnbabel(credential string, opts Options) (Translator, error) {
	if err := requireCredential("Unbabel", credential); err != nil {
		return nil, err
	}
	username := opts.String("username", "")
	if username == "" {
		return nil, missingOption("Unbabel", "username")
	}
	return &unbabel{
		conn:     newConn("Unbabel", "https://api.unbabel.com/tapi/v2", opts, 0),
		key:      credential,
		username: username,
	}, nil
}

// Translate submits a job. Unbabel finishes jobs asynchronously; a job
// that is not completed in the submit response is reported as a failure
// and never polled.
func (u *unbabel) Translate(ctx context.Context, text, from, to string, _ Options) (string, error) {
	body := map[string]string{
		"text":            text,
		"source_language": from,
		"target_language": to,
	}
	header := http.Header{}
	header.Set("Authorization", "ApiKey "+u.username+":"+u.key)

	var out struct {
		Status         string `json:"status"`
		TranslatedText string `json:"translatedText"`
	}
	if err := u.postJSON(ctx, u.baseURL+"/translation/", body, header, &out); err != nil {
		return "", err
	}
	if out.Status != "completed" {
		return "", u.fail("Translation is not completed yet.", out.Status)
	}
	return out.TranslatedText, nil
}
