package ledger

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// TodoListABI is the consumed surface of the TodoList contract.
const TodoListABI = `[
  {"type":"function","name":"taskCount","stateMutability":"view","inputs":[],
   "outputs":[{"name":"","type":"uint256","internalType":"uint256"}]},
  {"type":"function","name":"getTask","stateMutability":"view",
   "inputs":[{"name":"_id","type":"uint256","internalType":"uint256"}],
   "outputs":[{"name":"","type":"tuple","internalType":"struct TodoList.Task","components":[
     {"name":"id","type":"uint256","internalType":"uint256"},
     {"name":"content","type":"string","internalType":"string"},
     {"name":"completed","type":"bool","internalType":"bool"}]}]},
  {"type":"function","name":"addTask","stateMutability":"nonpayable",
   "inputs":[{"name":"_content","type":"string","internalType":"string"}],"outputs":[]},
  {"type":"function","name":"updateTask","stateMutability":"nonpayable",
   "inputs":[{"name":"_id","type":"uint256","internalType":"uint256"},
             {"name":"_newContent","type":"string","internalType":"string"}],"outputs":[]},
  {"type":"function","name":"toggleComplete","stateMutability":"nonpayable",
   "inputs":[{"name":"_id","type":"uint256","internalType":"uint256"}],"outputs":[]},
  {"type":"function","name":"deleteTask","stateMutability":"nonpayable",
   "inputs":[{"name":"_id","type":"uint256","internalType":"uint256"}],"outputs":[]}
]`

// Contract method names.
const (
	methodTaskCount = "taskCount"
	methodGetTask   = "getTask"
	methodAddTask   = "addTask"
	methodUpdate    = "updateTask"
	methodToggle    = "toggleComplete"
	methodDelete    = "deleteTask"
)

// taskTuple mirrors the getTask return tuple; field names follow abi's
// camel-casing of the component names.
type taskTuple struct {
	Id        *big.Int
	Content   string
	Completed bool
}

// ParseTodoListABI parses TodoListABI.
func ParseTodoListABI() (abi.ABI, error) {
	return abi.JSON(strings.NewReader(TodoListABI))
}
