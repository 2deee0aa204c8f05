package translate

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const (
	tencentHost      = "tmt.tencentcloudapi.com"
	tencentService   = "tmt"
	tencentAction    = "TextTranslate"
	tencentVersion   = "2018-03-21"
	tencentAlgorithm = "TC3-HMAC-SHA256"
	tencentJSON      = "application/json; charset=utf-8"
)

type tencent struct {
	conn
	secretID  string
	secretKey string
	region    string
	now       func() time.Time
}

func newTencent(credential string, opts Options) (Translator, error) {
	id, key, err := splitCredential("Tencent", credential, "secretId:secretKey")
	if err != nil {
		return nil, err
	}
	return &tencent{
		conn:      newConn("Tencent", "https://"+tencentHost, opts, 0),
		secretID:  id,
		secretKey: key,
		region:    opts.String("region", "ap-guangzhou"),
		now:       time.Now,
	}, nil
}

func (t *tencent) Translate(ctx context.Context, text, from, to string, _ Options) (string, error) {
	payload, err := json.Marshal(struct {
		SourceText string
		Source     string
		Target     string
		ProjectId  int
	}{text, from, to, 0})
	if err != nil {
		return "", t.wrap("encoding request", err)
	}

	timestamp := t.now().Unix()
	header := http.Header{}
	header.Set("X-TC-Action", tencentAction)
	header.Set("X-TC-Version", tencentVersion)
	header.Set("X-TC-Timestamp", strconv.FormatInt(timestamp, 10))
	header.Set("X-TC-Region", t.region)
	header.Set("Authorization", tencentAuthorization(t.secretID, t.secretKey, payload, timestamp))

	var out struct {
		Response struct {
			TargetText string `json:"TargetText"`
			Error      *struct {
				Code    string `json:"Code"`
				Message string `json:"Message"`
			} `json:"Error"`
		} `json:"Response"`
	}
	err = t.postRaw(ctx, t.baseURL, payload, tencentJSON, header, &out)
	if e := out.Response.Error; e != nil {
		return "", t.fail(e.Message, e.Code)
	}
	if err != nil {
		return "", err
	}
	return out.Response.TargetText, nil
}

// tencentAuthorization signs a TextTranslate request with TC3-HMAC-SHA256.
// The signing key is derived from the secret through the UTC date of the
// timestamp, the service name and "tc3_request".
func tencentAuthorization(secretID, secretKey string, payload []byte, timestamp int64) string {
	canonical := strings.Join([]string{
		"POST",
		"/",
		"",
		"content-type:" + tencentJSON + "\nhost:" + tencentHost + "\n",
		"content-type;host",
		sha256Hex(payload),
	}, "\n")

	date := time.Unix(timestamp, 0).UTC().Format("2006-01-02")
	scope := date + "/" + tencentService + "/tc3_request"
	stringToSign := strings.Join([]string{
		tencentAlgorithm,
		strconv.FormatInt(timestamp, 10),
		scope,
		sha256Hex([]byte(canonical)),
	}, "\n")

	kDate := hmacSHA256([]byte("TC3"+secretKey), date)
	kService := hmacSHA256(kDate, tencentService)
	kSigning := hmacSHA256(kService, "tc3_request")
	signature := hex.EncodeToString(hmacSHA256(kSigning, stringToSign))

	return tencentAlgorithm + " Credential=" + secretID + "/" + scope +
		", SignedHeaders=content-type;host, Signature=" + signature
}

func sha256Hex(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func hmacSHA256(key []byte, msg string) []byte {
	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(msg))
	return mac.Sum(nil)
}
