package requests

type Action string

const (
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
	ActionReturn  Action = "return"
)

// 許可される遷移:
//   pending  -> approved (approve)
//   pending  -> rejected (reject)
//   approved -> returned (return, 返却可タイプのみ)
// それ以外はすべて不正。rejected / returned は終端。
var transitions = map[Status]map[Action]Status{
	StatusPending: {
		ActionApprove: StatusApproved,
		ActionReject:  StatusRejected,
	},
	StatusApproved: {
		ActionReturn: StatusReturned,
	},
}

// Next は from に action を適用した先の状態を返す。遷移が無ければ ok=false。
func Next(from Status, action Action) (Status, bool) {
	to, ok := transitions[from][action]
	return to, ok
}
