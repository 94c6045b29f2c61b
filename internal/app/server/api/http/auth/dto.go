package auth

type loginInput struct {
	Body LoginRequest
}

type LoginRequest struct {
	Department string `json:"department" doc:"Отдел из справочника"`
	Group      string `json:"group" doc:"Группа отдела"`
	Password   string `json:"password" doc:"Секрет пары отдел/группа"`
}

type loginOutput struct {
	Body LoginResponse
}

type LoginResponse struct {
	Token  string `json:"token"`
	Status string `json:"status"`
}

type logoutInput struct{}

type logoutOutput struct {
	Body LogoutResponse
}

type LogoutResponse struct {
	Status string `json:"status"`
}
