package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/advoga-scheduler/internal/domain/account"
	"github.com/BruksfildServices01/advoga-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/advoga-scheduler/internal/domain/collaboration"
	"github.com/BruksfildServices01/advoga-scheduler/internal/domain/financial"
	"github.com/BruksfildServices01/advoga-scheduler/internal/domain/page"
	"github.com/BruksfildServices01/advoga-scheduler/internal/httperr"
	"github.com/BruksfildServices01/advoga-scheduler/internal/infra/lock"
)

type errorMapping struct {
	status  int
	message string
}

// businessErrors traduz o código de negócio para status HTTP e mensagem.
// Códigos repetidos entre pacotes (forbidden, page_not_found) têm o mesmo valor.
var businessErrors = map[string]errorMapping{
	// -------- 404 --------
	appointment.ErrNotFound:                {http.StatusNotFound, "Agendamento não encontrado."},
	page.ErrPageNotFound:                   {http.StatusNotFound, "Página não encontrada."},
	account.ErrUserNotFound:                {http.StatusNotFound, "Usuário não encontrado."},
	collaboration.ErrTargetNotFound:        {http.StatusNotFound, "Nenhum usuário encontrado com esse código ou e-mail."},
	collaboration.ErrInviteNotFound:        {http.StatusNotFound, "Convite não encontrado."},
	collaboration.ErrCollaborationNotFound: {http.StatusNotFound, "Colaborador não encontrado."},
	financial.ErrEntryNotFound:             {http.StatusNotFound, "Lançamento não encontrado."},

	// -------- 401 / 403 --------
	account.ErrInvalidCredentials: {http.StatusUnauthorized, "E-mail ou senha inválidos."},
	page.ErrForbidden:             {http.StatusForbidden, "Você não tem permissão para esta ação."},

	// -------- 409 --------
	appointment.ErrSlotTaken:             {http.StatusConflict, "Este horário já foi reservado."},
	appointment.ErrSlotUnavailable:       {http.StatusConflict, "Horário fora da disponibilidade do advogado."},
	appointment.ErrInvalidState:          {http.StatusConflict, "O agendamento não permite esta ação no status atual."},
	appointment.ErrConcurrentUpdate:      {http.StatusConflict, "O agendamento foi alterado por outra pessoa. Recarregue e tente novamente."},
	appointment.ErrPageInactive:          {http.StatusConflict, "Esta página não está recebendo agendamentos."},
	page.ErrSlugTaken:                    {http.StatusConflict, "Este endereço de página já está em uso."},
	account.ErrEmailTaken:                {http.StatusConflict, "Já existe uma conta com este e-mail."},
	collaboration.ErrAlreadyCollaborator: {http.StatusConflict, "Este usuário já colabora nesta página."},
	collaboration.ErrInvitePending:       {http.StatusConflict, "Já existe um convite pendente para este usuário."},
	collaboration.ErrInviteNotPending:    {http.StatusConflict, "Este convite já foi respondido."},
	financial.ErrInvalidState:            {http.StatusConflict, "O saque não permite esta mudança de status."},

	// -------- 422 --------
	financial.ErrInsufficientFunds: {http.StatusUnprocessableEntity, "Saldo disponível insuficiente."},

	// -------- 400 --------
	appointment.ErrInvalidPrice:       {http.StatusBadRequest, "Valor inválido."},
	appointment.ErrInvalidSchedule:    {http.StatusBadRequest, "Data ou hora inválida."},
	appointment.ErrInvalidAssignee:    {http.StatusBadRequest, "O advogado indicado não tem acesso a esta página."},
	appointment.ErrPaymentNotApproved: {http.StatusBadRequest, "Pagamento não aprovado."},
	appointment.ErrPaymentMismatch:    {http.StatusBadRequest, "O valor pago não confere com o valor da consulta."},
	appointment.ErrMissingContact:     {http.StatusBadRequest, "Informe nome e e-mail ou telefone do cliente."},
	page.ErrInvalidSlug:               {http.StatusBadRequest, "Endereço de página inválido."},
	page.ErrInvalidWeekday:            {http.StatusBadRequest, "Dia da semana inválido."},
	page.ErrInvalidSlot:               {http.StatusBadRequest, "Horário inválido. Use HH:MM."},
	account.ErrInvalidEmailDomain:     {http.StatusBadRequest, "O domínio do e-mail informado não parece ser válido."},
	collaboration.ErrInvalidRole:      {http.StatusBadRequest, "Papel inválido."},
	collaboration.ErrSelfInvite:       {http.StatusBadRequest, "Você não pode convidar a si mesmo."},
	financial.ErrInvalidAmount:        {http.StatusBadRequest, "Valor de saque inválido."},
	financial.ErrMissingBankDetails:   {http.StatusBadRequest, "Dados bancários incompletos."},
}

// respondError escreve a resposta de erro de um use case.
// Erros sem código de negócio viram 500 e ficam registrados em c.Errors.
func respondError(c *gin.Context, err error) {
	if errors.Is(err, lock.ErrLockTimeout) {
		_ = c.Error(err)
		httperr.Write(c, http.StatusServiceUnavailable, "resource_busy", "Operação em andamento. Tente novamente em instantes.")
		return
	}

	code := httperr.CodeOf(err)
	if code == "" {
		_ = c.Error(err)
		httperr.Internal(c, "internal_error", "Erro interno. Tente novamente.")
		return
	}

	m, ok := businessErrors[code]
	if !ok {
		httperr.BadRequest(c, code, "Requisição inválida.")
		return
	}
	httperr.Write(c, m.status, code, m.message)
}

func invalidRequest(c *gin.Context, err error) {
	_ = c.Error(err)
	httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
}

// bindOptionalJSON aceita corpo vazio; corpo presente precisa ser válido.
func bindOptionalJSON(c *gin.Context, dst any) bool {
	if c.Request.ContentLength == 0 {
		return true
	}
	if err := c.ShouldBindJSON(dst); err != nil {
		invalidRequest(c, err)
		return false
	}
	return true
}
