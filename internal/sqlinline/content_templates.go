package sqlinline

const QInsertContentTemplate = `--sql e2586e12-0086-488c-b96d-aa6717b69aa1
insert into content_templates (user_id, topic_id, platform, title, content, tags, status)
values ($1::text, nullif($2::text, '')::uuid, $3::text, $4::text, $5::text, $6::text[], 'draft')
returning id::text, user_id, coalesce(topic_id::text, ''), platform, title, content, tags, status,
    created_at, updated_at;
`

// An empty topic argument lists every topic of the owner.
const QListContentTemplates = `--sql 912f9234-62ee-4c5f-b3e3-24e6d42e5aa4
select id::text, user_id, coalesce(topic_id::text, ''), platform, title, content, tags, status,
    created_at, updated_at
from content_templates
where user_id = $1::text
  and ($2::text = '' or topic_id::text = $2::text)
order by created_at desc;
`

const QSelectContentTemplate = `--sql 9cd16095-1f00-4138-9cc4-5aa2a28e1540
select id::text, user_id, coalesce(topic_id::text, ''), platform, title, content, tags, status,
    created_at, updated_at
from content_templates
where id::text = $1::text
  and user_id = $2::text;
`

// Null arguments keep the stored value.
const QPatchContentTemplate = `--sql e9186c3a-865a-4837-a447-4fb250495257
update content_templates set
    title = coalesce($3::text, title),
    content = coalesce($4::text, content),
    tags = coalesce($5::text[], tags),
    status = coalesce($6::text, status),
    updated_at = now()
where id::text = $1::text
  and user_id = $2::text
returning id::text, user_id, coalesce(topic_id::text, ''), platform, title, content, tags, status,
    created_at, updated_at;
`
