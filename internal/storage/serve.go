package storage

import "net/http"

// Serve streams obj and closes it. Responses are never cached.
func Serve(w http.ResponseWriter, r *http.Request, obj *Object) {
	defer obj.Close()
	w.Header().Set("Cache-Control", "private, no-store")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	http.ServeContent(w, r, obj.Name, obj.ModTime, obj)
}
