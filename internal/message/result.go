package message

// Kind 操作結果類別.
// 取代布林加可空錯誤的舊模式，讓未授權 / 不存在 / 存儲失敗 / 目錄失敗可以被明確區分.
type Kind int

const (
	KindOk Kind = iota
	KindNotFound
	KindUnauthorized
	KindStoreFailure
	KindDirectoryFailure
)

// String 回傳類別名稱.
func (k Kind) String() string {
	switch k {
	case KindOk:
		return "ok"
	case KindNotFound:
		return "not_found"
	case KindUnauthorized:
		return "unauthorized"
	case KindStoreFailure:
		return "store_failure"
	case KindDirectoryFailure:
		return "directory_failure"
	default:
		return "unknown"
	}
}

// Result 帶類別標記的操作結果.
// 所有失敗都被本層轉換為 Result，不會有錯誤以 panic 形式跨越服務邊界.
type Result struct {
	Kind Kind
	Err  error
}

// Success 操作是否成功.
func (r Result) Success() bool {
	return r.Kind == KindOk
}

func ok() Result {
	return Result{Kind: KindOk}
}

func notFound() Result {
	return Result{Kind: KindNotFound}
}

func unauthorized() Result {
	return Result{Kind: KindUnauthorized}
}

func storeFailure(err error) Result {
	return Result{Kind: KindStoreFailure, Err: err}
}

func directoryFailure(err error) Result {
	return Result{Kind: KindDirectoryFailure, Err: err}
}
