package util

import (
	"unicode/utf8"
)

// Validator 按调用顺序收集表单校验错误，和页面上的错误列表一一对应。
type Validator struct {
	errors []string
}

// MinLength 字符数（非字节数）小于 min 时记录 msg
func (v *Validator) MinLength(value string, min int, msg string) *Validator {
	if utf8.RuneCountInString(value) < min {
		v.errors = append(v.errors, msg)
	}
	return v
}

// NotEmpty 空字符串时记录 msg
func (v *Validator) NotEmpty(value, msg string) *Validator {
	if value == "" {
		v.errors = append(v.errors, msg)
	}
	return v
}

// Equals 两个值不相等时记录 msg
func (v *Validator) Equals(value, other, msg string) *Validator {
	if value != other {
		v.errors = append(v.errors, msg)
	}
	return v
}

// Errors 返回收集到的错误，没有错误时为 nil
func (v *Validator) Errors() []string {
	return v.errors
}

// Valid 是否没有任何错误
func (v *Validator) Valid() bool {
	return len(v.errors) == 0
}
