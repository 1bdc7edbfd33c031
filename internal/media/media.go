package media

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"io"
	"net"
	"net/http"
	"net/url"
	"path"
	"strings"
	"syscall"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

// ErrInvalidImage 客户端提供的图片无法读取或解码
var ErrInvalidImage = errors.New("invalid image source")

var errBlockedAddress = errors.New("address not allowed")

const maxRedirects = 3

// Uploader 把客户端提供的图片托管到持久存储，返回可公开访问的 URL
type Uploader interface {
	Upload(ctx context.Context, source string) (string, error)
}

// Store 实际落盘/上云的后端
type Store interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

// Options 取图与处理限制。MaxSourcePixels 在解码前按 width*height 校验；
// AllowPrivateHosts 允许连接回环/内网/链路本地地址，仅供本地开发。
type Options struct {
	MaxDimension      int
	MaxSourceBytes    int64
	MaxSourcePixels   int64
	FetchTimeout      time.Duration
	AllowPrivateHosts bool
}

// Host 读取图片来源（http(s) URL 或 data URI），限制尺寸后交给 Store
type Host struct {
	store  Store
	client *http.Client
	opts   Options
}

func NewHost(store Store, opts Options) *Host {
	if opts.MaxDimension <= 0 {
		opts.MaxDimension = 2048
	}
	if opts.MaxSourceBytes <= 0 {
		opts.MaxSourceBytes = 10 << 20
	}
	if opts.MaxSourcePixels <= 0 {
		opts.MaxSourcePixels = 40_000_000
	}
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = 15 * time.Second
	}
	return &Host{store: store, client: newFetchClient(opts), opts: opts}
}

// newFetchClient 远程取图只允许连接公网地址，重定向次数有限
func newFetchClient(opts Options) *http.Client {
	dialer := &net.Dialer{Timeout: opts.FetchTimeout}
	if !opts.AllowPrivateHosts {
		// 在拿到解析结果之后、建立连接之前检查，重定向和 DNS 重绑定同样被拦住
		dialer.Control = func(_, address string, _ syscall.RawConn) error {
			host, _, err := net.SplitHostPort(address)
			if err != nil {
				return err
			}
			if ip := net.ParseIP(host); ip == nil || !publicIP(ip) {
				return fmt.Errorf("%w: %s", errBlockedAddress, host)
			}
			return nil
		}
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.Proxy = nil
	transport.DialContext = dialer.DialContext

	return &http.Client{
		Timeout:   opts.FetchTimeout,
		Transport: transport,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return fmt.Errorf("%w: too many redirects", ErrInvalidImage)
			}
			if req.URL.Scheme != "http" && req.URL.Scheme != "https" {
				return fmt.Errorf("%w: redirect to %s", ErrInvalidImage, req.URL.Scheme)
			}
			return nil
		},
	}
}

var sharedAddressSpace = &net.IPNet{IP: net.IPv4(100, 64, 0, 0), Mask: net.CIDRMask(10, 32)}

func publicIP(ip net.IP) bool {
	return !(ip.IsLoopback() || ip.IsPrivate() || ip.IsUnspecified() ||
		ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast() ||
		ip.IsInterfaceLocalMulticast() || ip.IsMulticast() ||
		sharedAddressSpace.Contains(ip))
}

func (h *Host) Upload(ctx context.Context, source string) (string, error) {
	raw, err := h.load(ctx, source)
	if err != nil {
		return "", err
	}
	data, format, err := h.normalize(raw)
	if err != nil {
		return "", err
	}

	ext, contentType := ".jpg", "image/jpeg"
	if format == imaging.PNG {
		ext, contentType = ".png", "image/png"
	}
	key := path.Join("posts", time.Now().UTC().Format("2006/01/02"), uuid.NewString()+ext)

	u, err := h.store.Put(ctx, key, data, contentType)
	if err != nil {
		return "", fmt.Errorf("store image: %w", err)
	}
	return u, nil
}

func (h *Host) load(ctx context.Context, source string) ([]byte, error) {
	source = strings.TrimSpace(source)
	switch {
	case strings.HasPrefix(source, "data:"):
		return decodeDataURI(source)
	case strings.HasPrefix(source, "http://"), strings.HasPrefix(source, "https://"):
		return h.fetch(ctx, source)
	default:
		return nil, fmt.Errorf("%w: unsupported scheme", ErrInvalidImage)
	}
}

func decodeDataURI(source string) ([]byte, error) {
	comma := strings.IndexByte(source, ',')
	if comma < 0 {
		return nil, fmt.Errorf("%w: malformed data uri", ErrInvalidImage)
	}
	meta, payload := source[len("data:"):comma], source[comma+1:]
	if strings.HasSuffix(meta, ";base64") {
		b, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
		}
		return b, nil
	}
	s, err := url.PathUnescape(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	return []byte(s), nil
}

func (h *Host) fetch(ctx context.Context, source string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	resp, err := h.client.Do(req)
	if err != nil {
		if errors.Is(err, errBlockedAddress) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
		}
		return nil, fmt.Errorf("fetch image: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch image: status %d", resp.StatusCode)
	}

	b, err := io.ReadAll(io.LimitReader(resp.Body, h.opts.MaxSourceBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	if int64(len(b)) > h.opts.MaxSourceBytes {
		return nil, fmt.Errorf("%w: larger than %d bytes", ErrInvalidImage, h.opts.MaxSourceBytes)
	}
	return b, nil
}

// normalize 解码并按最大边长等比缩放；PNG 保持 PNG，其余统一转 JPEG
func (h *Host) normalize(raw []byte) ([]byte, imaging.Format, error) {
	if int64(len(raw)) > h.opts.MaxSourceBytes {
		return nil, 0, fmt.Errorf("%w: larger than %d bytes", ErrInvalidImage, h.opts.MaxSourceBytes)
	}
	// 先只读头部尺寸，避免小文件解码出巨大位图
	cfg, _, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	if int64(cfg.Width)*int64(cfg.Height) > h.opts.MaxSourcePixels {
		return nil, 0, fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrInvalidImage, cfg.Width, cfg.Height, h.opts.MaxSourcePixels)
	}
	img, err := imaging.Decode(bytes.NewReader(raw), imaging.AutoOrientation(true))
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	format := imaging.JPEG
	if http.DetectContentType(raw) == "image/png" {
		format = imaging.PNG
	}

	img = fit(img, h.opts.MaxDimension)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, format, imaging.JPEGQuality(85)); err != nil {
		return nil, 0, fmt.Errorf("encode image: %w", err)
	}
	return buf.Bytes(), format, nil
}

func fit(img image.Image, limit int) image.Image {
	b := img.Bounds()
	if b.Dx() <= limit && b.Dy() <= limit {
		return img
	}
	return imaging.Fit(img, limit, limit, imaging.Lanczos)
}
