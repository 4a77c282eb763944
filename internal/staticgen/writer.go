package staticgen

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/tencentyun/cos-go-sdk-v5"
)

// Writer 静态文件写入
type Writer interface {
	Write(ctx context.Context, rel string, content []byte) error
}

// FileWriter 写入本地输出目录，先写临时文件再重命名，读者不会看到半个文件
type FileWriter struct {
	root string
}

// NewFileWriter 创建本地写入器
func NewFileWriter(root string) *FileWriter {
	return &FileWriter{root: root}
}

// Root 输出根目录
func (w *FileWriter) Root() string {
	return w.root
}

// Path 相对路径对应的本地路径，拒绝越出输出目录
func (w *FileWriter) Path(rel string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(rel))
	if rel == "" || filepath.IsAbs(clean) || clean == "." || clean == ".." ||
		strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: 非法路径 %q", ErrIO, rel)
	}
	return filepath.Join(w.root, clean), nil
}

// Write 覆盖写入，内容原样落盘
func (w *FileWriter) Write(_ context.Context, rel string, content []byte) error {
	target, err := w.Path(rel)
	if err != nil {
		return err
	}
	dir := filepath.Dir(target)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: 创建目录 %s 失败: %v", ErrIO, dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(target)+".tmp-*")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrIO, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: 写入 %s 失败: %v", ErrIO, rel, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: %v", ErrIO, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("%w: %v", ErrIO, err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		return fmt.Errorf("%w: 替换 %s 失败: %v", ErrIO, rel, err)
	}
	return nil
}

// ObjectPutter 对象存储上传
type ObjectPutter interface {
	Put(ctx context.Context, key string, content []byte, contentType string) error
}

// COSPutter 腾讯云COS上传
type COSPutter struct {
	client *cos.Client
}

// NewCOSPutter 创建COS上传客户端
func NewCOSPutter(bucketURL, secretID, secretKey string) (*COSPutter, error) {
	u, err := url.Parse(bucketURL)
	if err != nil {
		return nil, fmt.Errorf("解析COS URL失败: %v", err)
	}
	client := cos.NewClient(&cos.BaseURL{BucketURL: u}, &http.Client{
		Transport: &cos.AuthorizationTransport{
			SecretID:  secretID,
			SecretKey: secretKey,
		},
	})
	return &COSPutter{client: client}, nil
}

// Put 上传对象
func (p *COSPutter) Put(ctx context.Context, key string, content []byte, contentType string) error {
	_, err := p.client.Object.Put(ctx, key, bytes.NewReader(content), &cos.ObjectPutOptions{
		ObjectPutHeaderOptions: &cos.ObjectPutHeaderOptions{ContentType: contentType},
	})
	return err
}

// MirrorWriter 本地写入成功后同步到对象存储
type MirrorWriter struct {
	local  Writer
	remote ObjectPutter
	prefix string
}

// NewMirrorWriter 创建镜像写入器
func NewMirrorWriter(local Writer, remote ObjectPutter, prefix string) *MirrorWriter {
	return &MirrorWriter{local: local, remote: remote, prefix: strings.Trim(prefix, "/")}
}

// Write 先写本地，再上传远端，任一失败都视为写入失败
func (w *MirrorWriter) Write(ctx context.Context, rel string, content []byte) error {
	if err := w.local.Write(ctx, rel, content); err != nil {
		return err
	}
	key := path.Join(w.prefix, filepath.ToSlash(rel))
	contentType := mime.TypeByExtension(path.Ext(rel))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	if err := w.remote.Put(ctx, key, content, contentType); err != nil {
		return fmt.Errorf("%w: 同步 %s 到对象存储失败: %v", ErrIO, key, err)
	}
	return nil
}
