package shopping

import "sync"

// listLocks 以清單 id 為鍵的互斥鎖集合
// 同一張清單的同步必須序列化：整段讀取-修改-寫回不是原子操作，
// 同一使用者重疊日期的兩筆餐點異動若並行處理會互相覆蓋
type listLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newListLocks() *listLocks {
	return &listLocks{
		locks: make(map[string]*sync.Mutex),
	}
}

// acquire 取得（必要時建立）指定清單的鎖，呼叫端自行 Lock/Unlock
func (l *listLocks) acquire(listID string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()

	lk, ok := l.locks[listID]
	if !ok {
		lk = &sync.Mutex{}
		l.locks[listID] = lk
	}
	return lk
}
