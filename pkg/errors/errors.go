package errors

import "errors"

// ErrLockNotObtained 在等待时间内未能获得资源锁（另一个操作正在处理同一需求）
var ErrLockNotObtained = errors.New("资源正被其他操作占用，请稍后重试")
