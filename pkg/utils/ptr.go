package utils

func IntPtr(i int) *int          { return &i }
func Uint64Ptr(u uint64) *uint64 { return &u }
func StringPtr(s string) *string { return &s }
