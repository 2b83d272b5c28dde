// Package gdrive はGoogle Drive上の成果物を取得するDownloaderを提供します。
package gdrive

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/hashicorp/go-getter"
	"golang.org/x/net/html"

	"logo_backend/internal/feature/weights/usecase"
)

// DefaultBaseURL はGoogle Driveの直接ダウンロード用エンドポイントです。
const DefaultBaseURL = "https://drive.google.com/uc"

// maxInterstitialBytes を超えるHTMLは確認ページとして解析しません。
const maxInterstitialBytes = 1 << 20

// ErrInterstitialPage はファイルの代わりにHTMLページ（ウイルススキャン警告など）が返されたことを示します。
var ErrInterstitialPage = errors.New("google drive returned an html page instead of the file")

var _ usecase.Downloader = (*Downloader)(nil)

// Downloader はgo-getterを使ってファイルIDまたはURLの成果物を取得します。
type Downloader struct {
	baseURL string
	getters map[string]getter.Getter
}

// NewDownloader は httpClient を使う Downloader を生成します。
// baseURL が空の場合は DefaultBaseURL を使用します。
func NewDownloader(httpClient *http.Client, baseURL string) *Downloader {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	hg := &getter.HttpGetter{Client: httpClient}

	getters := make(map[string]getter.Getter, len(getter.Getters))
	for k, v := range getter.Getters {
		getters[k] = v
	}
	getters["http"] = hg
	getters["https"] = hg

	return &Downloader{baseURL: baseURL, getters: getters}
}

// ResolveSource はDriveのファイルIDをダウンロードURLに変換します。
// すでにURLやgo-getterの強制指定（"s3::" など）の場合はそのまま返します。
func (d *Downloader) ResolveSource(remoteID string) string {
	if strings.Contains(remoteID, "://") || strings.Contains(remoteID, "::") {
		return remoteID
	}
	q := url.Values{}
	q.Set("export", "download")
	q.Set("id", remoteID)
	return d.baseURL + "?" + q.Encode()
}

// Download は remoteID の成果物を dst に単一ファイルとして保存します。
//
// 大きなファイルではDriveが確認ページ（HTML）を返すため、そのフォームを1回だけ辿ります。
// それでもHTMLしか得られない場合は dst を削除して ErrInterstitialPage を返します。
func (d *Downloader) Download(ctx context.Context, remoteID, dst string) error {
	src := d.ResolveSource(remoteID)

	for attempt := 0; attempt < 2; attempt++ {
		if err := d.fetch(ctx, src, dst); err != nil {
			return fmt.Errorf("fetch %s: %w", remoteID, err)
		}

		page, isHTML, err := readIfHTML(dst)
		if err != nil {
			return err
		}
		if !isHTML {
			return nil
		}
		if rmErr := os.Remove(dst); rmErr != nil && !os.IsNotExist(rmErr) {
			return fmt.Errorf("remove interstitial page %s: %w", dst, rmErr)
		}

		next, ok := confirmURL(page, src)
		if !ok {
			break
		}
		src = next
	}
	return fmt.Errorf("fetch %s: %w", remoteID, ErrInterstitialPage)
}

func (d *Downloader) fetch(ctx context.Context, src, dst string) error {
	client := &getter.Client{
		Ctx:     ctx,
		Src:     src,
		Dst:     dst,
		Mode:    getter.ClientModeFile,
		Getters: d.getters,
		// 重みファイルは展開しない
		Decompressors: map[string]getter.Decompressor{},
	}
	return client.Get()
}

// readIfHTML は path の先頭を判定し、HTMLであれば本文を返します。
func readIfHTML(path string) ([]byte, bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, false, fmt.Errorf("open downloaded file: %w", err)
	}
	defer func() { _ = f.Close() }()

	head := make([]byte, 512)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, false, fmt.Errorf("read downloaded file: %w", err)
	}
	head = head[:n]
	if !strings.HasPrefix(http.DetectContentType(head), "text/html") {
		return nil, false, nil
	}

	rest, err := io.ReadAll(io.LimitReader(f, maxInterstitialBytes))
	if err != nil {
		return nil, false, fmt.Errorf("read downloaded file: %w", err)
	}
	return append(head, rest...), true, nil
}

// confirmURL は確認ページのダウンロードフォーム（hidden input: id, export, confirm, uuid）
// または confirm= を含むリンクから、実体を取得するURLを組み立てます。
func confirmURL(page []byte, src string) (string, bool) {
	base, err := url.Parse(src)
	if err != nil {
		return "", false
	}
	doc, err := html.Parse(bytes.NewReader(page))
	if err != nil {
		return "", false
	}

	if form := findNode(doc, func(n *html.Node) bool {
		return n.Data == "form" && attr(n, "action") != ""
	}); form != nil {
		action, err := base.Parse(attr(form, "action"))
		if err != nil {
			return "", false
		}
		q := action.Query()
		walk(form, func(n *html.Node) {
			if n.Data == "input" && strings.EqualFold(attr(n, "type"), "hidden") && attr(n, "name") != "" {
				q.Set(attr(n, "name"), attr(n, "value"))
			}
		})
		action.RawQuery = q.Encode()
		return action.String(), true
	}

	if a := findNode(doc, func(n *html.Node) bool {
		return n.Data == "a" && strings.Contains(attr(n, "href"), "confirm=")
	}); a != nil {
		link, err := base.Parse(attr(a, "href"))
		if err != nil {
			return "", false
		}
		return link.String(), true
	}
	return "", false
}

func walk(n *html.Node, fn func(*html.Node)) {
	if n.Type == html.ElementNode {
		fn(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, fn)
	}
}

func findNode(root *html.Node, match func(*html.Node) bool) *html.Node {
	var found *html.Node
	walk(root, func(n *html.Node) {
		if found == nil && match(n) {
			found = n
		}
	})
	return found
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
