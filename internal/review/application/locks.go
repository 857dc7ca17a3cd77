package application

import "sync"

// keyedMutex はキー単位の排他制御。
// 投稿可否チェックと書き込みの間に同一 (user, company) の並行投稿が
// 割り込まないようにする用途と、企業単位の再集計直列化に使う。
// 正当性の最終防衛線はストア側のユニーク部分インデックス。
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*entryLock
}

type entryLock struct {
	mu   sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*entryLock)}
}

// Lock はキーに対応するミューテックスを獲得し、解放関数を返す。
func (k *keyedMutex) Lock(key string) func() {
	k.mu.Lock()
	entry, ok := k.locks[key]
	if !ok {
		entry = &entryLock{}
		k.locks[key] = entry
	}
	entry.refs++
	k.mu.Unlock()

	entry.mu.Lock()
	return func() {
		entry.mu.Unlock()
		k.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
