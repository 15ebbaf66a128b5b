package routes

import (
	"io/fs"
	"net/http"

	"github.com/kennelworks/kennelbook/assets"
	"github.com/kennelworks/kennelbook/internal/app"
	"github.com/kennelworks/kennelbook/internal/handler"
	"github.com/kennelworks/kennelbook/internal/middleware"
	"github.com/kennelworks/kennelbook/internal/storage"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	animal := handler.NewAnimalHandler(app.AnimalService)
	breeder := handler.NewBreederHandler(app.BreederService, app.AnimalService)
	breed := handler.NewBreedHandler(app.BreedService)

	mux := http.NewServeMux()

	// Static files
	sub, _ := fs.Sub(assets.AssetsFS, ".")
	mux.Handle("GET /assets/", http.StripPrefix("/assets/", http.FileServer(http.FS(sub))))

	// Local storage serves stored photos directly; S3 URLs point at the bucket
	local, ok := app.Storage.(*storage.LocalStorage)
	if ok {
		mux.Handle("GET /media/", http.StripPrefix("/media/", http.FileServer(http.Dir(local.Root()))))
	}

	// Home
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/animals", http.StatusSeeOther)
	})

	// Animals
	mux.HandleFunc("GET /animals", animal.ListPage)
	mux.HandleFunc("GET /animals/new", animal.NewPage)
	mux.HandleFunc("POST /animals", animal.Create)
	mux.HandleFunc("GET /animals/{id}", animal.DetailPage)
	mux.HandleFunc("GET /animals/{id}/edit", animal.EditPage)
	mux.HandleFunc("POST /animals/{id}/edit", animal.Update)
	mux.HandleFunc("GET /animals/{id}/delete", animal.DeletePage)
	mux.HandleFunc("POST /animals/{id}/delete", animal.Delete)

	// Breeders
	mux.HandleFunc("GET /breeders", breeder.ListPage)
	mux.HandleFunc("GET /breeders/new", breeder.NewPage)
	mux.HandleFunc("POST /breeders", breeder.Create)
	mux.HandleFunc("GET /breeders/{id}", breeder.DetailPage)
	mux.HandleFunc("GET /breeders/{id}/edit", breeder.EditPage)
	mux.HandleFunc("POST /breeders/{id}/edit", breeder.Update)
	mux.HandleFunc("GET /breeders/{id}/delete", breeder.DeletePage)
	mux.HandleFunc("POST /breeders/{id}/delete", breeder.Delete)

	// Breeds
	mux.HandleFunc("GET /breeds", breed.ListPage)
	mux.HandleFunc("GET /breeds/new", breed.NewPage)
	mux.HandleFunc("POST /breeds", breed.Create)
	mux.HandleFunc("GET /breeds/{id}/edit", breed.EditPage)
	mux.HandleFunc("POST /breeds/{id}/edit", breed.Update)
	mux.HandleFunc("GET /breeds/{id}/delete", breed.DeletePage)
	mux.HandleFunc("POST /breeds/{id}/delete", breed.Delete)

	return middleware.Chain(mux,
		middleware.Recover,
		middleware.RequestLogging,
	)
}
