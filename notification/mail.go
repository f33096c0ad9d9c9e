package notification

import (
	"fmt"
	"net/smtp"

	"github.com/itqwq/chartkite/tools/log"
)

// Mail 通过SMTP发送告警邮件,实现service.Notifier。
// 和Telegram通道相比它只发不收,适合只想收刷新失败告警的场景。
type Mail struct {
	auth              smtp.Auth
	smtpServerPort    int
	smtpServerAddress string

	to   string
	from string
}

// MailParams 汇总创建Mail通知器所需的参数
type MailParams struct {
	SMTPServerAddress string // SMTP服务器地址,如 smtp.example.com
	SMTPServerPort    int    // 通常为587(STARTTLS)或465
	To                string
	From              string
	Password          string
}

// NewMail 用PLAIN认证创建邮件通知器
func NewMail(params MailParams) Mail {
	return Mail{
		auth: smtp.PlainAuth(
			"",
			params.From,
			params.Password,
			params.SMTPServerAddress,
		),
		smtpServerAddress: params.SMTPServerAddress,
		smtpServerPort:    params.SMTPServerPort,
		to:                params.To,
		from:              params.From,
	}
}

// Notify 把文本作为邮件正文发出去
func (t Mail) Notify(text string) {
	serverAddress := fmt.Sprintf("%s:%d", t.smtpServerAddress, t.smtpServerPort)

	message := fmt.Sprintf(
		"To: \"User\" <%s>\r\nFrom: \"chartkite\" <%s>\r\nSubject: chartkite alert\r\n\r\n%s",
		t.to,
		t.from,
		text,
	)

	err := smtp.SendMail(
		serverAddress,
		t.auth,
		t.from,
		[]string{t.to},
		[]byte(message))
	if err != nil {
		log.
			WithField("error", err).
			Errorf("notification/mail: couldn't send mail")
	}
}

// OnError 发送带标题的错误告警邮件
func (t Mail) OnError(err error) {
	t.Notify(fmt.Sprintf("ERROR\n-----\n%s", err))
}
