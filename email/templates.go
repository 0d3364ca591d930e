package email

const welcomeTmpl = `
<p>Olá {{NAME}},</p>
<p>Sua conta no <strong>MentorX</strong> foi criada com sucesso.</p>
{{#if IS_MENTOR}}
<p>Você já pode criar seu primeiro curso, montar os módulos e publicar a sua
página de vendas. Complete o cadastro de pagamentos para vender cursos pagos.</p>
{{/if}}
<p>Qualquer dúvida, é só responder este e-mail.</p>
`

const purchaseTmpl = `
<p>Olá {{NAME}},</p>
<p><strong>{{STUDENT_NAME}}</strong> acabou de comprar o seu curso
<strong>{{COURSE_TITLE}}</strong>.</p>
<p>A matrícula já foi ativada automaticamente.</p>
`

const enrollmentTmpl = `
<p>Olá {{NAME}},</p>
<p>Sua matrícula no curso <strong>{{COURSE_TITLE}}</strong> foi confirmada.</p>
<p>Bons estudos!</p>
`
