package email

import (
	"context"
	"errors"
	"testing"
	"time"

	mail "github.com/go-mail/mail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTwoFactorMessage(t *testing.T) {
	msg, err := TwoFactorMessage("ana@mundocomputo.test", TwoFactorData{
		AppName:   "MundoComputo",
		Nombre:    "Ana",
		Code:      "042917",
		ExpiresAt: time.Date(2024, 5, 1, 10, 5, 0, 0, time.UTC),
		Minutes:   5,
	})
	require.NoError(t, err)

	assert.Equal(t, "ana@mundocomputo.test", msg.To)
	assert.Equal(t, TemplateTwoFactor, msg.Template)
	assert.Contains(t, msg.Subject, "código de verificación")
	assert.Contains(t, msg.HTMLBody, "042917")
	assert.Contains(t, msg.TextBody, "042917")
	assert.Contains(t, msg.TextBody, "5 minutos")
}

func TestReceiptMessage_EscapesHTML(t *testing.T) {
	msg, err := ReceiptMessage("cliente@test", ReceiptData{
		AppName: "MundoComputo",
		SaleID:  "01HX",
		Fecha:   time.Now(),
		Cliente: "<script>x</script>",
		Lineas: []ReceiptLine{
			{Descripcion: "SSD 1TB", Cantidad: 2, Unitario: "$250.000", Subtotal: "$500.000"},
		},
		Total:       "$500.000",
		MetodoPago:  "tarjeta",
		Transaccion: "01HY",
	})
	require.NoError(t, err)

	assert.NotContains(t, msg.HTMLBody, "<script>")
	assert.Contains(t, msg.HTMLBody, "SSD 1TB")
	assert.Contains(t, msg.TextBody, "- SSD 1TB x2 @ $250.000 = $500.000")
	assert.Contains(t, msg.TextBody, "Total: $500.000")
}

func TestAccountStatusMessage(t *testing.T) {
	on, err := AccountStatusMessage("x@test", AccountStatusData{AppName: "MC", Nombre: "Luis", Activo: true, Rol: "Técnico"})
	require.NoError(t, err)
	assert.Contains(t, on.Subject, "activada")
	assert.Contains(t, on.TextBody, "Técnico")

	off, err := AccountStatusMessage("x@test", AccountStatusData{AppName: "MC", Nombre: "Luis"})
	require.NoError(t, err)
	assert.Contains(t, off.Subject, "desactivada")
}

func TestSMTPSender_Send(t *testing.T) {
	s := NewSMTPSender(SMTPConfig{Host: "smtp.test", Port: 2525, From: "no-reply@mc.test", FromName: "MundoComputo", TLSMode: "starttls"})

	var gotDialer *mail.Dialer
	var sent int
	s.dial = func(d *mail.Dialer, m ...*mail.Message) error {
		gotDialer = d
		sent = len(m)
		return nil
	}

	err := s.Send(context.Background(), Message{To: "a@test", Subject: "hola", TextBody: "t", HTMLBody: "<p>h</p>"})
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	assert.Equal(t, "smtp.test", gotDialer.Host)
	assert.Equal(t, 2525, gotDialer.Port)
	assert.Equal(t, mail.MandatoryStartTLS, gotDialer.StartTLSPolicy)

	s.dial = func(*mail.Dialer, ...*mail.Message) error { return errors.New("conexión rechazada") }
	err = s.Send(context.Background(), Message{To: "a@test"})
	assert.ErrorContains(t, err, "smtp send")
}

func TestSMTPSender_CanceledContext(t *testing.T) {
	s := NewSMTPSender(SMTPConfig{Host: "smtp.test"})
	s.dial = func(*mail.Dialer, ...*mail.Message) error {
		t.Fatal("no debe intentar enviar")
		return nil
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, s.Send(ctx, Message{}), context.Canceled)
}
