package sqlinline

const QInsertScheduledPost = `--sql abb30560-9fa9-4ffd-957e-7286d8c9f4ce
insert into scheduled_posts (user_id, template_id, platform, content, scheduled_at, status)
values ($1::text, nullif($2::text, '')::uuid, $3::text, $4::text, $5::timestamptz, 'scheduled')
returning id::text, user_id, coalesce(template_id::text, ''), platform, content, scheduled_at, status,
    created_at, updated_at;
`

const QListScheduledPosts = `--sql 5d067da9-68f6-4ede-aec2-03752370f52e
select id::text, user_id, coalesce(template_id::text, ''), platform, content, scheduled_at, status,
    created_at, updated_at
from scheduled_posts
where user_id = $1::text
order by scheduled_at asc;
`

const QPatchScheduledPost = `--sql a91361b6-13c7-4e31-891c-5769b6ca1bd2
update scheduled_posts set
    content = coalesce($3::text, content),
    scheduled_at = coalesce($4::timestamptz, scheduled_at),
    status = coalesce($5::text, status),
    updated_at = now()
where id::text = $1::text
  and user_id = $2::text
returning id::text, user_id, coalesce(template_id::text, ''), platform, content, scheduled_at, status,
    created_at, updated_at;
`

const QDeleteScheduledPost = `--sql 94bdcf5d-62df-4c61-8319-30d34d720f72
delete from scheduled_posts
where id::text = $1::text
  and user_id = $2::text;
`
