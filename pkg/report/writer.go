package report

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// WriteFile 先写临时文件再重命名，目标文件要么完整要么不存在
func WriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, "创建报告目录失败 %s", dir)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return errors.Wrap(err, "创建临时文件失败")
	}
	tmpPath := tmp.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return errors.Wrapf(err, "写入临时文件失败 %s", tmpPath)
	}
	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		return errors.Wrapf(err, "同步临时文件失败 %s", tmpPath)
	}
	if err = tmp.Close(); err != nil {
		return errors.Wrapf(err, "关闭临时文件失败 %s", tmpPath)
	}
	if err = os.Chmod(tmpPath, 0o644); err != nil {
		return errors.Wrapf(err, "设置报告文件权限失败 %s", tmpPath)
	}
	if err = os.Rename(tmpPath, path); err != nil {
		return errors.Wrapf(err, "重命名报告文件失败 %s", path)
	}
	return nil
}
