package translate

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// ---------------------------------------------------------------------------
// DeepL
// ---------------------------------------------------------------------------

type deepL struct {
	conn
	key string
}

func newDeepL(credential string, opts Options) (Translator, error) {
	return &deepL{conn: newConn("DeepL", "https://api.deepl.com/v2", opts, 0), key: credential}, nil
}

func (d *deepL) Translate(ctx context.Context, text, from, to string, opts Options) (string, error) {
	form := url.Values{}
	form.Set("auth_key", d.key)
	form.Set("text", text)
	form.Set("target_lang", strings.ToUpper(to))
	forward(form, opts)
	if from != "" {
		form.Set("source_lang", strings.ToUpper(from))
	}

	var out struct {
		Translations []struct {
			Text string `json:"text"`
		} `json:"translations"`
		Message string `json:"message"`
	}
	err := d.postForm(ctx, d.baseURL+"/translate", form, nil, &out)
	if out.Message != "" {
		return "", d.fail(out.Message, "")
	}
	if err != nil {
		return "", err
	}
	if len(out.Translations) == 0 {
		return "", d.fail("no translation in response", "")
	}
	return out.Translations[0].Text, nil
}

// ---------------------------------------------------------------------------
// Yandex Translate v1.5
// ---------------------------------------------------------------------------

type yandex struct {
	conn
	key string
}

func newYandex(credential string, opts Options) (Translator, error) {
	return &yandex{conn: newConn("Yandex Translate", "https://translate.yandex.net/api/v1.5/tr.json", opts, 0), key: credential}, nil
}

func (y *yandex) Translate(ctx context.Context, text, from, to string, opts Options) (string, error) {
	form := url.Values{}
	form.Set("text", text)
	form.Set("lang", from+"-"+to)
	form.Set("key", y.key)
	forward(form, opts)

	var out struct {
		Code    int      `json:"code"`
		Message string   `json:"message"`
		Text    []string `json:"text"`
	}
	err := y.postForm(ctx, y.baseURL+"/translate", form, nil, &out)
	if out.Code != 0 && out.Code != http.StatusOK {
		msg := out.Message
		if msg == "" {
			msg = strconv.Itoa(out.Code)
		}
		return "", y.fail(msg, "")
	}
	if err != nil {
		return "", err
	}
	if out.Code != http.StatusOK || len(out.Text) == 0 {
		return "", y.fail("no translation in response", "")
	}
	return out.Text[0], nil
}

// ---------------------------------------------------------------------------
// Yandex Cloud Translate v2
// ---------------------------------------------------------------------------

type yandexCloud struct {
	conn
	key      string
	folderID string
}

func newYandexCloud(credential string, opts Options) (Translator, error) {
	folder := opts.String("folderId", "")
	if folder == "" {
		return nil, missingOption("Yandex Cloud Translate", "folderId")
	}
	return &yandexCloud{
		conn:     newConn("Yandex Cloud Translate", "https://translate.api.cloud.yandex.net/translate/v2", opts, 0),
		key:      credential,
		folderID: folder,
	}, nil
}

func (y *yandexCloud) Translate(ctx context.Context, text, from, to string, _ Options) (string, error) {
	body := map[string]any{
		"folderId":           y.folderID,
		"texts":              []string{text},
		"sourceLanguageCode": from,
		"targetLanguageCode": to,
	}
	header := http.Header{}
	header.Set("Authorization", "Api-Key "+y.key)

	var out struct {
		Translations []struct {
			Text string `json:"text"`
		} `json:"translations"`
		Message string `json:"message"`
	}
	err := y.postJSON(ctx, y.baseURL+"/translate", body, header, &out)
	if out.Message != "" {
		return "", y.fail(out.Message, "")
	}
	if err != nil {
		return "", err
	}
	if len(out.Translations) == 0 {
		return "", y.fail("no translation in response", "")
	}
	return out.Translations[0].Text, nil
}

// ---------------------------------------------------------------------------
// Azure Translator v3
// ---------------------------------------------------------------------------

type azure struct {
	conn
	key string
}

func newAzure(credential string, opts Options) (Translator, error) {
	return &azure{conn: newConn("Azure Translator", "https://api.cognitive.microsofttranslator.com", opts, 0), key: credential}, nil
}

func (a *azure) Translate(ctx context.Context, text, from, to string, opts Options) (string, error) {
	q := url.Values{}
	q.Set("api-version", "3.0")
	q.Set("from", from)
	q.Set("to", to)
	forward(q, opts, "region")

	header := http.Header{}
	header.Set("Ocp-Apim-Subscription-Key", a.key)
	if region := opts.String("region", ""); region != "" {
		header.Set("Ocp-Apim-Subscription-Region", region)
	}

	var out azureResponse
	err := a.postJSON(ctx, a.baseURL+"/translate?"+q.Encode(), []map[string]string{{"Text": text}}, header, &out)
	if out.err != nil && out.err.Message != "" {
		return "", a.fail(out.err.Message, codeString(out.err.Code))
	}
	if err != nil {
		return "", err
	}
	if len(out.items) > 0 && len(out.items[0].Translations) > 0 && out.items[0].Translations[0].Text != "" {
		return out.items[0].Translations[0].Text, nil
	}
	return "", a.fail("No translation found in response", "")
}

// azureResponse is either an array of results or an error object.
type azureResponse struct {
	items []struct {
		Translations []struct {
			Text string `json:"text"`
			To   string `json:"to"`
		} `json:"translations"`
	}
	err *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	}
}

func (r *azureResponse) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		return json.Unmarshal(data, &r.items)
	}
	var wrapper struct {
		Error *struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(data, &wrapper); err != nil {
		return err
	}
	r.err = wrapper.Error
	return nil
}

// ---------------------------------------------------------------------------
// IBM Watson Language Translator v3
// ---------------------------------------------------------------------------

type ibm struct {
	conn
	key     string
	version string
}

func newIBM(credential string, opts Options) (Translator, error) {
	instance := opts.String("url", "https://api.us-south.language-translator.watson.cloud.ibm.com/instances/your-instance-id")
	return &ibm{
		conn:    newConn("IBM Watson", instance, opts, 0),
		key:     credential,
		version: opts.String("version", "2022-08-01"),
	}, nil
}

func (i *ibm) Translate(ctx context.Context, text, from, to string, _ Options) (string, error) {
	body := map[string]any{
		"text":     []string{text},
		"model_id": from + "-" + to,
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return "", i.wrap("encoding request", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		i.baseURL+"/v3/translate?version="+url.QueryEscape(i.version), bytes.NewReader(payload))
	if err != nil {
		return "", i.wrap("building request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth("apikey", i.key)

	var out struct {
		Translations []struct {
			Translation string `json:"translation"`
		} `json:"translations"`
		Error string `json:"error"`
		Code  int    `json:"code"`
	}
	err = i.send(req, nil, &out)
	if out.Error != "" {
		return "", i.fail(out.Error, codeString(out.Code))
	}
	if err != nil {
		return "", err
	}
	if len(out.Translations) == 0 {
		return "", i.fail("no translation in response", "")
	}
	return out.Translations[0].Translation, nil
}

// ---------------------------------------------------------------------------
// Baidu Translate
// ---------------------------------------------------------------------------

type baidu struct {
	conn
	appID string
	key   string
	now   func() time.Time
}

func newBaidu(credential string, opts Options) (Translator, error) {
	appID, key, err := splitCredential("Baidu Translate", credential, "appId:apiKey")
	if err != nil {
		return nil, err
	}
	return &baidu{
		conn:  newConn("Baidu Translate", "https://fanyi-api.baidu.com/api/trans/vip", opts, 0),
		appID: appID,
		key:   key,
		now:   time.Now,
	}, nil
}

// baiduSign returns md5(appid + text + salt + key) in hex.
func baiduSign(appID, text, salt, key string) string {
	sum := md5.Sum([]byte(appID + text + salt + key))
	return hex.EncodeToString(sum[:])
}

func (b *baidu) Translate(ctx context.Context, text, from, to string, opts Options) (string, error) {
	salt := opts.String("salt", strconv.FormatInt(b.now().UnixMilli(), 10))

	q := url.Values{}
	q.Set("q", text)
	q.Set("from", from)
	q.Set("to", to)
	q.Set("appid", b.appID)
	q.Set("salt", salt)
	q.Set("sign", baiduSign(b.appID, text, salt, b.key))

	var out struct {
		ErrorCode   flexString `json:"error_code"`
		ErrorMsg    string     `json:"error_msg"`
		TransResult []struct {
			Src string `json:"src"`
			Dst string `json:"dst"`
		} `json:"trans_result"`
	}
	err := b.get(ctx, b.baseURL+"/translate", q, nil, &out)
	if out.ErrorCode != "" && out.ErrorCode != "52000" {
		return "", b.fail(out.ErrorMsg, string(out.ErrorCode))
	}
	if err != nil {
		return "", err
	}
	if len(out.TransResult) == 0 {
		return "", b.fail("no translation in response", "")
	}
	return out.TransResult[0].Dst, nil
}

// ---------------------------------------------------------------------------
// Naver Papago
// ---------------------------------------------------------------------------

type papago struct {
	conn
	clientID     string
	clientSecret string
}

func newPapago(credential string, opts Options) (Translator, error) {
	id, secret, err := splitCredential("Papago", credential, "clientId:clientSecret")
	if err != nil {
		return nil, err
	}
	return &papago{
		conn:         newConn("Papago", "https://openapi.naver.com/v1/papago", opts, 0),
		clientID:     id,
		clientSecret: secret,
	}, nil
}

func (p *papago) Translate(ctx context.Context, text, from, to string, _ Options) (string, error) {
	body := map[string]string{"source": from, "target": to, "text": text}
	header := http.Header{}
	header.Set("X-Naver-Client-Id", p.clientID)
	header.Set("X-Naver-Client-Secret", p.clientSecret)

	var out struct {
		ErrorMessage string `json:"errorMessage"`
		ErrorCode    string `json:"errorCode"`
		Message      struct {
			Result struct {
				TranslatedText string `json:"translatedText"`
			} `json:"result"`
		} `json:"message"`
	}
	err := p.postJSON(ctx, p.baseURL+"/n2mt", body, header, &out)
	if out.ErrorMessage != "" {
		return "", p.fail(out.ErrorMessage, out.ErrorCode)
	}
	if err != nil {
		return "", err
	}
	return out.Message.Result.TranslatedText, nil
}

func codeString(code int) string {
	if code == 0 {
		return ""
	}
	return strconv.Itoa(code)
}
