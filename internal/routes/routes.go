package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/nmkhans/mamar-bank/internal/handlers"
	appmw "github.com/nmkhans/mamar-bank/internal/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

func NewRoutes() *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.Logger)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	r.Post("/auth/register", handlers.RegisterHandler)
	r.Post("/auth/login", handlers.LoginHandler)
	r.With(appmw.Authenticated).Get("/auth/me", handlers.MeHandler)
	r.With(appmw.Authenticated).Post("/auth/password", handlers.PasswordChangeHandler)

	r.With(appmw.Authenticated).Get("/profile", handlers.GetProfileHandler)
	r.With(appmw.Authenticated).Put("/profile", handlers.UpdateProfileHandler)

	r.With(appmw.Authenticated).Post("/transactions/deposit", handlers.DepositHandler)
	r.With(appmw.Authenticated).Post("/transactions/withdraw", handlers.WithdrawHandler)
	r.With(appmw.Authenticated).Post("/transactions/transfer", handlers.TransferHandler)
	r.With(appmw.Authenticated).Get("/transactions/report", handlers.ReportHandler)

	r.With(appmw.Authenticated).Post("/loans", handlers.LoanRequestHandler)
	r.With(appmw.Authenticated).Get("/loans", handlers.LoanListHandler)
	r.With(appmw.Authenticated).Post("/loans/{id}/pay", handlers.PayLoanHandler)

	r.With(appmw.Authenticated, appmw.RequireStaff).Post("/admin/loans/{id}/approve", handlers.ApproveLoanHandler)

	r.Get("/swagger/*", httpSwagger.WrapHandler)

	return r
}
